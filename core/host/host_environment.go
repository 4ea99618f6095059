package host

const (
	EnvironmentKey     = "Environment"
	ApplicationNameKey = "ApplicationName"
	ContentRootKey     = "ContentRoot"
)

const (
	Development = "Development"
	Staging     = "Staging"
	Production  = "Production"
)

type IHostEnvironment interface {
	GetEnvironmentName() string
	GetApplicationName() string
	GetContentRootPath() string

	IsEnvironment(name string) bool
	IsDevelopment() bool
	IsStaging() bool
	IsProduction() bool
}
