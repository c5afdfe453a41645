// Package common contains constants shared by the ContactX client layers.
package common

// Header names attached to every outgoing API request.
const (
	HeaderAuthorization    = "Authorization"
	HeaderContentType      = "Content-Type"
	HeaderAccept           = "Accept"
	HeaderOrigin           = "Origin"
	HeaderXOrigin          = "X-Origin"
	HeaderRequestedOrigin  = "X-Requested-Origin"
	HeaderForwardedOrigin  = "X-Forwarded-Origin"
	HeaderReferer          = "Referer"
	HeaderTimezone         = "X-Timezone"
	HeaderRequestID        = "X-Request-ID"
	ContentTypeJSON        = "application/json"
	BearerPrefix           = "Bearer "
	APIPathSuffix          = "/api"
	DefaultAPIBaseURL      = "https://api.contactx.app/api"
	DefaultDataDirName     = ".contactx"
	DefaultDatabaseName    = "contactx.db"
	EnvDevelopment         = "development"
	EnvProduction          = "production"
	GenericErrorMessage    = "An error occurred"
	NoDataAvailableMessage = "No data available"
)

// Keys of the local key/value store.
const (
	KeyAuthToken       = "auth_token"
	KeyAuthUser        = "auth_user"
	KeyThemeMode       = "theme_mode"
	KeyCustomColors    = "custom_colors"
	KeyLastCreatedCard = "last_created_card"
)
