package metadata

import (
	"fmt"
	"strings"
)

type Condition string

const (
	ConditionGood    Condition = "Good"
	ConditionFair    Condition = "Fair"
	ConditionDamaged Condition = "Damaged"
)

func NewCondition(value string) (Condition, error) {
	condition := Condition(strings.TrimSpace(value))
	if !condition.IsValid() {
		return "", fmt.Errorf(
			"value not valid, only valid values are: %s, %s, %s",
			ConditionGood, ConditionFair, ConditionDamaged,
		)
	}
	return condition, nil
}

func (c Condition) IsValid() bool {
	switch c {
	case ConditionGood, ConditionFair, ConditionDamaged:
		return true
	default:
		return false
	}
}

func (c Condition) String() string {
	return string(c)
}
