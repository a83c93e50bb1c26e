package noemptyobjecttype

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidOptions is returned for malformed rule options: unknown keys,
// unknown enum values, a non-object value or an invalid name pattern.
var ErrInvalidOptions = errors.New("invalid no-empty-object-type options")

//go:embed schema.json
var optionsSchema []byte

var schemaLoader = gojsonschema.NewBytesLoader(optionsSchema)

// AllowInterfaces controls which empty interfaces are tolerated.
type AllowInterfaces int

// AllowInterfaces values. The zero value is the default.
const (
	InterfacesNever AllowInterfaces = iota
	InterfacesAlways
	InterfacesWithSingleExtends
)

func (a AllowInterfaces) String() string {
	switch a {
	case InterfacesAlways:
		return "always"
	case InterfacesWithSingleExtends:
		return "with-single-extends"
	default:
		return "never"
	}
}

// AllowObjectTypes controls whether empty object type literals are tolerated.
type AllowObjectTypes int

// AllowObjectTypes values. The zero value is the default.
const (
	ObjectTypesNever AllowObjectTypes = iota
	ObjectTypesAlways
)

func (a AllowObjectTypes) String() string {
	if a == ObjectTypesAlways {
		return "always"
	}

	return "never"
}

// Options is the validated rule configuration. It is immutable once parsed
// and may be shared between goroutines.
type Options struct {
	AllowInterfaces  AllowInterfaces
	AllowObjectTypes AllowObjectTypes
	// AllowWithName exempts declarations whose name matches. Nil exempts nothing.
	AllowWithName *NamePattern
}

type rawOptions struct {
	AllowInterfaces  string  `json:"allowInterfaces"`
	AllowObjectTypes string  `json:"allowObjectTypes"`
	AllowWithName    *string `json:"allowWithName"`
}

// ParseOptions validates user options. It accepts nil (defaults), a single
// options object, or an array holding at most that one object.
func ParseOptions(raw any) (Options, error) {
	if list, ok := raw.([]any); ok {
		switch len(list) {
		case 0:
			return Options{}, nil
		case 1:
			raw = list[0]
		default:
			return Options{}, fmt.Errorf("%w: expected at most one options object, got %d elements",
				ErrInvalidOptions, len(list))
		}
	}

	if raw == nil {
		return Options{}, nil
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			problems = append(problems, verr.String())
		}

		return Options{}, fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(problems, "; "))
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	var decoded rawOptions

	err = json.Unmarshal(data, &decoded)
	if err != nil {
		return Options{}, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	return decoded.resolve()
}

func (r rawOptions) resolve() (Options, error) {
	var opts Options

	switch r.AllowInterfaces {
	case "", "never":
		opts.AllowInterfaces = InterfacesNever
	case "always":
		opts.AllowInterfaces = InterfacesAlways
	case "with-single-extends":
		opts.AllowInterfaces = InterfacesWithSingleExtends
	default:
		return Options{}, fmt.Errorf("%w: allowInterfaces %q", ErrInvalidOptions, r.AllowInterfaces)
	}

	switch r.AllowObjectTypes {
	case "", "never":
		opts.AllowObjectTypes = ObjectTypesNever
	case "always":
		opts.AllowObjectTypes = ObjectTypesAlways
	default:
		return Options{}, fmt.Errorf("%w: allowObjectTypes %q", ErrInvalidOptions, r.AllowObjectTypes)
	}

	if r.AllowWithName != nil {
		pattern, err := CompileNamePattern(*r.AllowWithName)
		if err != nil {
			return Options{}, fmt.Errorf("%w: allowWithName: %w", ErrInvalidOptions, err)
		}

		opts.AllowWithName = pattern
	}

	return opts, nil
}

// Schema returns the JSON Schema of the options object.
func Schema() []byte {
	return optionsSchema
}
