// Package patient loads patient records consulted by prescription validation.
package patient

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rx-rule-validator/internal/domain"
)

// LoadFile reads a patient record from a YAML, JSON or TOML file. The format
// is taken from the file extension.
func LoadFile(path string) (domain.Patient, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return domain.Patient{}, fmt.Errorf("reading patient file %s: %w", filepath.Base(path), err)
	}
	return decode(v)
}

// Load reads a patient record in the given format ("yaml", "json", "toml").
func Load(r io.Reader, format string) (domain.Patient, error) {
	v := viper.New()
	v.SetConfigType(strings.ToLower(format))
	if err := v.ReadConfig(r); err != nil {
		return domain.Patient{}, fmt.Errorf("reading patient record: %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (domain.Patient, error) {
	var p domain.Patient
	if err := v.Unmarshal(&p); err != nil {
		return domain.Patient{}, fmt.Errorf("decoding patient record: %w", err)
	}
	if err := p.Validate(); err != nil {
		return domain.Patient{}, fmt.Errorf("invalid patient record: %w", err)
	}
	return p, nil
}
