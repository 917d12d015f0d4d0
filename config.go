package schemaplan

import (
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/broady/schemaplan/imports"
	"github.com/broady/schemaplan/names"
	"github.com/broady/schemaplan/sink"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	validate.RegisterValidation("javapackage", func(fl validator.FieldLevel) bool {
		return validPackage(fl.Field().String())
	})
	validate.RegisterValidation("javatype", func(fl validator.FieldLevel) bool {
		t := imports.Parse(fl.Field().String())
		return t.Package != "" && validPackage(t.Package) && validPackage(t.Name)
	})
	validate.RegisterValidation("outpath", func(fl validator.FieldLevel) bool {
		return sink.ValidatePath(fl.Field().String()) == nil
	})
}

func validPackage(s string) bool {
	for seg := range strings.SplitSeq(s, ".") {
		if !names.IsValid(seg) {
			return false
		}
	}
	return true
}

// Config holds the configuration for a planning run.
type Config struct {
	// Package is the package of generated classes.
	// e.g. "com.example.orders"
	Package string `schema:"package" validate:"omitempty,javapackage"`

	// ListType is the declared type of repeated fields.
	// Default: "java.util.List"
	ListType string `schema:"list_type" validate:"javatype"`

	// ListImplementation is instantiated for repeated fields unless a
	// customization names another class.
	// Default: "java.util.ArrayList"
	ListImplementation string `schema:"list_implementation" validate:"javatype"`

	// Interfaces are implemented by every generated top-level class.
	// e.g. []string{"java.io.Serializable"}
	Interfaces []string `schema:"interface" validate:"dive,javatype"`

	// ImageFile is the output path of the model image.
	// Default: "model.image"
	ImageFile string `schema:"image_file" validate:"outpath"`

	// ClassesFile is the output path of the class descriptor JSON.
	// Default: "classes.json"
	ClassesFile string `schema:"classes_file" validate:"outpath"`

	// SkipClasses disables the class descriptor JSON output.
	SkipClasses bool `schema:"skip_classes"`
}

// applyConfigDefaults applies default values to Config.
func applyConfigDefaults(cfg *Config) *Config {
	// Make a copy to avoid mutating the input
	result := *cfg

	if result.ListType == "" {
		result.ListType = "java.util.List"
	}
	if result.ListImplementation == "" {
		result.ListImplementation = "java.util.ArrayList"
	}
	if result.ImageFile == "" {
		result.ImageFile = "model.image"
	}
	if result.ClassesFile == "" {
		result.ClassesFile = "classes.json"
	}

	return &result
}

// Validate applies defaults to a copy of cfg and checks it.
func (cfg *Config) Validate() error {
	return validate.Struct(applyConfigDefaults(cfg))
}

// ParseOptions decodes key=value options into a Config. Keys are the schema
// tags of Config fields; "interface" may repeat. Unknown keys are errors.
func ParseOptions(values url.Values) (*Config, error) {
	var cfg Config
	if err := schemaDecoder.Decode(&cfg, values); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseSettings parses "key=value" strings, as given on a command line,
// into option values.
func ParseSettings(settings []string) (url.Values, error) {
	values := url.Values{}
	for _, s := range settings {
		key, value, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, Errorf(CodeInvalidConfig, "setting %q is not key=value", s)
		}
		values.Add(key, value)
	}
	return values, nil
}
