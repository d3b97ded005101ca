package ast

// Service is the root of the tree.
type Service struct {
	DefBase
	Members []Definition
	// FileScoped is true for "service Name;" followed by top-level members.
	FileScoped bool
}

// Walk calls fn for the service and every member, in source order.
func (s *Service) Walk(fn func(h *Header)) {
	fn(&s.Header)
	for _, m := range s.Members {
		fn(m.DefinitionHeader())
	}
}
