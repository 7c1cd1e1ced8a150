package repository

import "github.com/doug-martin/goqu/v9"

type QueryBuilder interface {
	AddCondition(key string, value interface{})
	AddContains(key string, value string)
	IsEmpty() bool
	BuildConditions(aliases map[string]string) goqu.Ex
}
