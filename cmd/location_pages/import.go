package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"location-pages/internal/location_pages/content"
	"location-pages/internal/location_pages/helper"
	"location-pages/internal/location_pages/importer"
)

var importCollections []string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Upsert the JSON content collections into MongoDB",
	Long: `Read neighborhoods and subdomains from the content directory and upsert
every record into MongoDB keyed by slug. Scheduled records are imported too.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringSliceVar(&importCollections, "collection",
		[]string{content.Neighborhoods, content.Subdomains}, "Collections to import")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	stores := helper.MustMongo(ctx, mongoOptions(cfg))
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Warn("Mongo disconnect failed", zap.Error(err))
		}
	}()

	im := importer.New(
		content.NewFileSource(cfg.Content.Dir, cfg.Content.Files),
		&importer.MongoWriter{Stores: stores},
		log,
	)
	for _, coll := range importCollections {
		if stores.Collection(coll) == nil {
			return fmt.Errorf("unknown collection %q", coll)
		}
		n, err := im.Import(ctx, coll)
		if err != nil {
			return fmt.Errorf("import %s: %w", coll, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", coll, n)
	}
	return nil
}
