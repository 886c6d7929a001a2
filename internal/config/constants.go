package config

// Fully qualified names of well-known classes. The lattice engines special
// case these the same way the rest of the checker does.
const (
	ObjectClassName   = "builtins.object"
	TypeClassName     = "builtins.type"
	TupleClassName    = "builtins.tuple"
	DictClassName     = "builtins.dict"
	FunctionClassName = "builtins.function"
	MappingClassName  = "typing.Mapping"
)
