package gen

import (
	"fmt"

	"github.com/llir/llvm/ir/value"
)

type renamable interface {
	SetName(name string)
	IsUnnamed() bool
}

// NameValue gives an unnamed instruction, parameter or global a readable
// name. Names are made unique within the module. Constants and values that
// already carry a name are left alone.
func (c *Context) NameValue(v value.Value, name string) bool {
	if name == "" {
		return false
	}
	n, ok := v.(renamable)
	if !ok || !n.IsUnnamed() {
		return false
	}
	c.labels++
	n.SetName(fmt.Sprintf("%s__%d", name, c.labels))
	return true
}
