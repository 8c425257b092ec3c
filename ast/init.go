package ast

// Initializer is implemented by InitializerSingle and InitializerList.
type Initializer interface {
	implInitializer()
}

// InitializerSingle is `= expr`.
type InitializerSingle struct {
	Value Expression
}

func (*InitializerSingle) implInitializer() {}

// InitializerList is a brace-enclosed, possibly nested, initializer list.
type InitializerList struct {
	Elements []Initializer
}

func (*InitializerList) implInitializer() {}
