package extensions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/m1gwings/treedrawer/tree"
	vselect "github.com/ts-zen/valtio-select"
)

// AccessDumpExtension renders the access set of every evaluate/rebuild as
// a tree (one branch per touched object, one leaf per tracked key) and
// logs it. Useful for answering "what is this selector actually
// subscribed to right now".
//
// Usage:
//
//	ext := extensions.NewAccessDumpExtension(slog.NewTextHandler(os.Stderr, nil))
//	sub, err := vselect.Watch(store, root, sel, onChange,
//	    vselect.WithExtension(ext),
//	)
type AccessDumpExtension struct {
	vselect.BaseExtension
	logger *slog.Logger

	// Label names objects in the dump; defaults to "%T(%p)".
	Label func(obj any) string
}

// NewAccessDumpExtension creates an access dump extension writing to the
// given slog.Handler.
func NewAccessDumpExtension(handler slog.Handler) *AccessDumpExtension {
	return &AccessDumpExtension{
		BaseExtension: vselect.NewBaseExtension("access-dump"),
		logger:        slog.New(handler),
	}
}

func (e *AccessDumpExtension) Wrap(ctx context.Context, next func() (any, error), op *vselect.Operation) (any, error) {
	result, err := next()
	if err != nil {
		return result, err
	}

	e.logger.Info("access set",
		"operation", string(op.Kind),
		"subscription", op.Subscription.ID(),
		"accesses", len(op.Accesses),
		"tree", e.formatAccessTree(op),
	)
	return result, err
}

func (e *AccessDumpExtension) formatAccessTree(op *vselect.Operation) string {
	type branch struct {
		label string
		keys  []string
	}
	byObject := make(map[any]*branch)
	var branches []*branch
	for _, a := range op.Accesses {
		b, seen := byObject[a.Object]
		if !seen {
			b = &branch{label: e.label(a.Object)}
			byObject[a.Object] = b
			branches = append(branches, b)
		}
		b.keys = append(b.keys, a.Key)
	}
	sort.SliceStable(branches, func(i, j int) bool {
		return branches[i].label < branches[j].label
	})

	t := tree.NewTree(tree.NodeString(string(op.Kind)))
	for i, b := range branches {
		t.AddChild(tree.NodeString(b.label))
		node, err := t.Child(i)
		if err != nil {
			continue
		}
		sort.Strings(b.keys)
		for _, key := range b.keys {
			node.AddChild(tree.NodeString(key))
		}
	}
	return fmt.Sprint(t)
}

func (e *AccessDumpExtension) label(obj any) string {
	if e.Label != nil {
		return e.Label(obj)
	}
	return fmt.Sprintf("%T(%p)", obj, obj)
}
