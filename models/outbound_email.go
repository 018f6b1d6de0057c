package models

type OutboundEmail struct {
	ToEmail  string
	ToName   string
	Subject  string
	HtmlBody string
}

type OutboundCall struct {
	ToPhone string
	Script  string
}
