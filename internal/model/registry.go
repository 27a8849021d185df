package model

// Entity is implemented by every persistent record type. The generic CRUD
// executor and query resolver only accept Entity values, which makes an
// unknown entity type a compile-time impossibility; the registry below
// covers the genuinely dynamic paths (permission generation for a module
// named at runtime).
type Entity interface {
	TableName() string
	Fillable() []string
	UsesSoftDelete() bool
}

// registry maps a canonical module name (snake_case plural table name) to a
// prototype of the entity persisted under it.
var registry = map[string]Entity{
	User{}.TableName():                User{},
	Profile{}.TableName():             Profile{},
	UserGroup{}.TableName():           UserGroup{},
	Permission{}.TableName():          Permission{},
	ProfileUserGroup{}.TableName():    ProfileUserGroup{},
	UserGroupPermission{}.TableName(): UserGroupPermission{},
	ActivityLog{}.TableName():         ActivityLog{},
}

// Lookup resolves a canonical module name to its entity prototype.
func Lookup(module string) (Entity, bool) {
	e, ok := registry[module]
	return e, ok
}

// Modules returns the canonical names of every registered entity.
func Modules() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// All returns a prototype for every registered entity, for migrations.
func All() []Entity {
	protos := make([]Entity, 0, len(registry))
	for _, e := range registry {
		protos = append(protos, e)
	}
	return protos
}
