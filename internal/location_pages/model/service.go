package model

// Service 服务目录条目，静态数据，不按发布日期过滤
type Service struct {
	Slug  string `json:"slug" yaml:"slug"`
	Title string `json:"title" yaml:"title"`
}

// ServiceCatalog mirrors the authored services file: {"serviceData":{"lists":[...]}}.
type ServiceCatalog struct {
	ServiceData struct {
		Lists []Service `json:"lists"`
	} `json:"serviceData"`
}
