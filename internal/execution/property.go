package execution

// Property is one of the standard executor properties. The set is closed:
// the only valid values are the four variables below. The zero Property is
// not a property.
type Property struct {
	id uint8
}

const (
	propWorkTracked uint8 = iota + 1
	propWorkUntracked
	propRelationshipFork
	propRelationshipContinuation
)

var (
	// WorkTracked asks for an executor that keeps its scheduler from being
	// considered idle while the executor value is in use.
	WorkTracked = Property{id: propWorkTracked}
	// WorkUntracked undoes WorkTracked.
	WorkUntracked = Property{id: propWorkUntracked}
	// RelationshipFork hints that submitted work is independent of the
	// submitter.
	RelationshipFork = Property{id: propRelationshipFork}
	// RelationshipContinuation hints that submitted work continues the
	// submitter and may be run as soon as the submitter yields.
	RelationshipContinuation = Property{id: propRelationshipContinuation}
)

var standardProperties = [...]Property{
	WorkTracked,
	WorkUntracked,
	RelationshipFork,
	RelationshipContinuation,
}

// Properties returns the properties every CompletionExecutor supports.
func Properties() []Property {
	out := make([]Property, len(standardProperties))
	copy(out, standardProperties[:])
	return out
}

// Valid reports whether p is one of the standard properties.
func (p Property) Valid() bool {
	return p.id >= propWorkTracked && p.id <= propRelationshipContinuation
}

func (p Property) String() string {
	switch p.id {
	case propWorkTracked:
		return "outstanding_work.tracked"
	case propWorkUntracked:
		return "outstanding_work.untracked"
	case propRelationshipFork:
		return "relationship.fork"
	case propRelationshipContinuation:
		return "relationship.continuation"
	default:
		return "invalid"
	}
}

// Extension identifies a property outside the standard set. Extensions are
// passed to targets as-is; implementations are usually small comparable
// values.
type Extension interface {
	PropertyName() string
}
