package entity

// App is one analyst application registered in the APPS registry
type App struct {
	Id         int
	Name       string
	LogoUrl    string
	Url        string
	Active     bool
	AccessRole string
	Database   string
	Schema     string
	Stage      string
}

// SemanticModel is one semantic model file attached to an app
type SemanticModel struct {
	Id     int
	AppId  int
	Name   string
	File   string
	Active bool
}
