package config

import "fmt"

// Operations is a bitmask of the mutating operations the endpoint will serve.
// Read operations (browse, export, listings) are always available.
type Operations int

const (
	DocumentInsert Operations = 1 << iota
	DocumentDelete
	CollectionDrop
	CollectionRename
)

// MutatingOperations contains every operation that modifies stored data.
const MutatingOperations = DocumentInsert | DocumentDelete | CollectionDrop | CollectionRename

// DeletingOperations contains every operation that destroys stored data.
const DeletingOperations = DocumentDelete | CollectionDrop

func Ops(ops ...string) (Operations, error) {
	var o Operations
	if err := o.Add(ops...); err != nil {
		return 0, err
	}
	return o, nil
}

func (o *Operations) Set(ops Operations)            { *o |= ops }
func (o *Operations) Clear(ops Operations)          { *o &= ^ops }
func (o Operations) IsSupported(ops Operations) bool { return o&ops != 0 }

func (o *Operations) Add(ops ...string) error {
	for _, op := range ops {
		switch op {
		case "DocumentInsert":
			o.Set(DocumentInsert)
		case "DocumentDelete":
			o.Set(DocumentDelete)
		case "CollectionDrop":
			o.Set(CollectionDrop)
		case "CollectionRename":
			o.Set(CollectionRename)
		default:
			return fmt.Errorf("invalid operation: %s", op)
		}
	}
	return nil
}
