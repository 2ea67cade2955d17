package config

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// replacesDefault reports whether a value from the config file replaces the default.
// Zero numbers and empty lists keep the default. Strings and bools always replace it,
// so every field of Config needs "omitempty".
func replacesDefault(v interface{}) bool {
	if v == nil {
		return false
	}
	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Map:
		return false
	case reflect.Array, reflect.Slice:
		return value.Len() > 0
	case reflect.Bool, reflect.String:
		return true
	}
	return !value.IsZero()
}

// mergeSection writes overrides into defaults, descending into nested sections.
func mergeSection(defaults map[string]interface{}, overrides map[string]interface{}) {
	for key, override := range overrides {
		existing, ok := defaults[key]
		if !ok {
			defaults[key] = override
			continue
		}
		existingSection, existingIsSection := existing.(map[string]interface{})
		overrideSection, overrideIsSection := override.(map[string]interface{})
		switch {
		case existingIsSection && overrideIsSection:
			mergeSection(existingSection, overrideSection)
		case replacesDefault(override):
			defaults[key] = override
		}
	}
}

func toYamlMap(v interface{}) (map[string]interface{}, error) {
	bz, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := yaml.Unmarshal(bz, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ApplyDefaults layers overrideCfg on top of defaultCfg and writes the result into newCfg.
// Zero numbers and empty lists in overrideCfg leave the default in place.
func ApplyDefaults(defaultCfg interface{}, overrideCfg interface{}, newCfg interface{}) error {
	merged, err := toYamlMap(defaultCfg)
	if err != nil {
		return fmt.Errorf("could not encode defaults: %v", err)
	}
	overrides, err := toYamlMap(overrideCfg)
	if err != nil {
		return fmt.Errorf("could not encode config: %v", err)
	}
	mergeSection(merged, overrides)

	bz, err := yaml.Marshal(merged)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(bz, newCfg)
}
