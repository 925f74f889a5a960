package depot

// Query lists the components an entity must hold and the ones it must not
//
// A query is only a description; Registry.View validates it against a registry.
type Query struct {
	include []Component
	exclude []Component
}

func newQuery() *Query {
	return &Query{}
}

// And adds required components
func (q *Query) And(components ...Component) *Query {
	q.include = append(q.include, components...)
	return q
}

// Not adds excluded components. Excluded components filter only; they carry no data.
func (q *Query) Not(components ...Component) *Query {
	q.exclude = append(q.exclude, components...)
	return q
}

func (q *Query) Includes() []Component {
	return q.include
}

func (q *Query) Excludes() []Component {
	return q.exclude
}
