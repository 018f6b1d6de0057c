package utils

import (
	"fmt"
	"reflect"
)

type PGConfig struct {
	Hostname         string
	Port             string
	User             string
	Password         string
	Database         string
	ConnectionString string
	MaxPoolSize      int
}

func (config PGConfig) GetConnectionString() string {
	if config.ConnectionString != "" {
		return config.ConnectionString
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s database=%s sslmode=disable",
		config.Hostname, config.Port, config.User, config.Password, config.Database)
}

// ColumnList returns the list of "db" tagged column names of a db model struct,
// in declaration order. Embedded structs are flattened.
func ColumnList[T any]() []string {
	var model T
	return columnsOfStruct(reflect.TypeOf(model))
}

func columnsOfStruct(t reflect.Type) []string {
	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, columnsOfStruct(field.Type)...)
			continue
		}
		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		columns = append(columns, tag)
	}
	return columns
}
