package rbac

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultMatrix: rol -> lista de (módulo, permiso).
type DefaultMatrix map[Role][]ModulePermission

// LoadDefaults parsea la matriz embebida.
func LoadDefaults() (DefaultMatrix, error) {
	return ParseMatrix(defaultsYAML)
}

// ParseMatrix acepta el formato:
//
//	roles:
//	  doctor:
//	    pets: [view]
//	    admissions: [view, edit]
func ParseMatrix(raw []byte) (DefaultMatrix, error) {
	var doc struct {
		Roles map[string]map[string][]string `yaml:"roles"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse role matrix: %w", err)
	}

	out := DefaultMatrix{}
	for rawRole, modules := range doc.Roles {
		role := Role(rawRole)
		if !role.Valid() {
			return nil, fmt.Errorf("parse role matrix: unknown role %q", rawRole)
		}
		perms := make([]ModulePermission, 0)
		for rawModule, types := range modules {
			module := Module(rawModule)
			if !module.Valid() {
				return nil, fmt.Errorf("parse role matrix: unknown module %q for role %q", rawModule, rawRole)
			}
			for _, t := range types {
				p := PermissionType(t)
				if !p.Valid() {
					return nil, fmt.Errorf("parse role matrix: unknown permission %q", t)
				}
				perms = append(perms, ModulePermission{Module: module, Permission: p})
			}
		}
		sortModulePermissions(perms)
		out[role] = perms
	}
	return out, nil
}
