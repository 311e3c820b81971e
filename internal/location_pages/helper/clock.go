package helper

import (
	"time"
)

var location = time.Local

// ConfigureTimeLocation 设置"今天"所用的时区；空字符串表示服务器本地时区
func ConfigureTimeLocation(name string) error {
	if name == "" || name == "Local" {
		location = time.Local
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		// fall back to server local time rather than refusing to start
		location = time.Local
		return err
	}
	location = loc
	return nil
}

// Location returns the configured location.
func Location() *time.Location {
	return location
}
