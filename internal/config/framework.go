package config

import (
	"errors"

	foundationerrors "git.home.luguber.info/inful/rde/internal/foundation/errors"
	"git.home.luguber.info/inful/rde/internal/foundation/normalization"
)

// Framework identifies the UI framework whose scripts are injected into docs pages.
type Framework string

const (
	FrameworkVue     Framework = "vue"
	FrameworkReact   Framework = "react"
	FrameworkAngular Framework = "angular"
)

// DefaultFramework is used when a project does not name one.
const DefaultFramework = FrameworkVue

// ErrUnknownFramework is wrapped by errors for framework names outside the supported set.
var ErrUnknownFramework = errors.New("unknown framework")

var frameworkNormalizer = normalization.NewEnumNormalizer("framework", map[string]Framework{
	"vue":     FrameworkVue,
	"react":   FrameworkReact,
	"angular": FrameworkAngular,
}, DefaultFramework)

var builtinFrameworks = map[Framework]FrameworkConfig{
	FrameworkVue: {CDN: []string{
		"https://unpkg.com/vue@2.7.16/dist/vue.min.js",
	}},
	FrameworkReact: {CDN: []string{
		"https://unpkg.com/react@18.3.1/umd/react.production.min.js",
		"https://unpkg.com/react-dom@18.3.1/umd/react-dom.production.min.js",
	}},
	FrameworkAngular: {CDN: []string{
		"https://unpkg.com/angular@1.8.3/angular.min.js",
	}},
}

// ParseFramework resolves a framework name. An empty name yields DefaultFramework.
func ParseFramework(raw string) (Framework, error) {
	if raw == "" {
		return DefaultFramework, nil
	}
	fw, err := frameworkNormalizer.NormalizeWithValidation(raw)
	if err != nil {
		return "", foundationerrors.WrapError(errors.Join(ErrUnknownFramework, err), foundationerrors.CategoryConfig, "unsupported framework").
			WithContext("framework", raw).
			Fatal().
			Build()
	}
	return fw, nil
}

// SupportedFrameworks lists the accepted framework names.
func SupportedFrameworks() []string {
	return frameworkNormalizer.ValidValues()
}
