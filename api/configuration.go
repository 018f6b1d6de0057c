package api

import "time"

type Configuration struct {
	Env  string
	Port string

	// Public base URL of this API, embedded in outbound tracking links.
	ApiBaseUrl string
	// Absolute URL of the learning moment page.
	LearningUrl string
	// Origin of the reporting dashboard, allowed through CORS.
	DashboardUrl string

	DefaultTimeout time.Duration
}
