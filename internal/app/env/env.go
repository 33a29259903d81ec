package env

import "os"

type Environment struct {
	name string
}

var (
	Dev = Environment{name: "dev"}
	Pro = Environment{name: "pro"}
)

func (e Environment) String() string {
	return e.name
}

// Detect reads the environment from ENVIRONMENT, defaulting to production.
func Detect() Environment {
	return detect(os.Getenv("ENVIRONMENT"))
}

func detect(value string) Environment {
	switch value {
	case Dev.name:
		return Dev
	default:
		return Pro
	}
}
