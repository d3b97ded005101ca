package model

import "github.com/fsdgo/fsd/internal/graph"

// DtoOrder returns the DTOs of the service ordered so that every DTO
// comes after the DTOs its fields refer to. DTOs that take part in a
// reference cycle are left out of order and returned as groups in cycles.
func (s *ServiceInfo) DtoOrder() (order []*DtoInfo, cycles [][]*DtoInfo) {
	g := graph.New()
	dtos := make(map[graph.Symbol]*DtoInfo)
	for _, dto := range s.Dtos() {
		sym := graph.Symbol(dto.name)
		if _, ok := dtos[sym]; ok {
			continue
		}
		dtos[sym] = dto
		g.AddNode(sym)
	}

	for _, dto := range s.Dtos() {
		if dtos[graph.Symbol(dto.name)] != dto {
			continue
		}
		for _, f := range dto.fields {
			if ref := referencedDto(s.fieldTypes[f]); ref != nil {
				g.AddEdge(graph.Symbol(dto.name), graph.Symbol(ref.name))
			}
		}
	}

	syms, cyclic := g.ResolutionOrder()
	for _, sym := range syms {
		order = append(order, dtos[sym])
	}
	for _, group := range cyclic {
		members := make([]*DtoInfo, len(group))
		for i, sym := range group {
			members[i] = dtos[sym]
		}
		cycles = append(cycles, members)
	}
	return order, cycles
}

// referencedDto returns the local DTO a type refers to through any
// result, array or map wrappers.
func referencedDto(t *TypeInfo) *DtoInfo {
	for t != nil {
		if t.Kind == KindDto {
			dto, _ := t.Dto.(*DtoInfo)
			return dto
		}
		t = t.Value
	}
	return nil
}
