// Package lower builds the service model from a parsed AST.
package lower

import (
	"log/slog"

	"github.com/fsdgo/fsd/internal/ast"
	"github.com/fsdgo/fsd/internal/remarks"
	"github.com/fsdgo/fsd/internal/types"
	"github.com/fsdgo/fsd/model"
)

// loweringContext tracks state during lowering.
type loweringContext struct {
	source  *model.SourceText
	remarks map[*ast.Header][]string
	types.Logger
}

// Lower builds the model of svc. Documentation in doc is attached to the
// declarations it describes, and documentation problems become errors of
// the service. Every constructor runs in Collect mode, so the returned
// service is never nil.
//
// If logger is nil, logging is disabled.
func Lower(source *model.SourceText, svc *ast.Service, doc *remarks.Document, logger *slog.Logger) *model.ServiceInfo {
	ctx := &loweringContext{source: source, Logger: types.Logger{L: logger}}

	var problems []remarks.Problem
	ctx.remarks, problems = doc.Attach(svc, func(offset int) int {
		line, _ := source.LineColumn(offset)
		return line
	})

	ctx.Log(slog.LevelDebug, "lowering service",
		slog.String("service", svc.Name.Name),
		slog.Int("members", len(svc.Members)))

	members := make([]model.Member, 0, len(svc.Members))
	for _, def := range svc.Members {
		if m := ctx.member(def); m != nil {
			members = append(members, m)
		}
	}

	d := ctx.decl(&svc.Header, svc.End)
	for _, p := range problems {
		d.Errors = append(d.Errors, model.NewError(p.Message, source.Position(p.Offset)))
	}
	result, _ := model.NewService(d, members, model.Collect)

	ctx.Log(slog.LevelDebug, "lowering complete",
		slog.String("service", svc.Name.Name),
		slog.Int("errors", len(model.Errors(result))))
	return result
}

func (ctx *loweringContext) member(def ast.Definition) model.Member {
	if ctx.TraceEnabled() {
		ctx.Trace("lowering member", slog.String("name", def.DefinitionHeader().Name.Name))
	}
	switch def := def.(type) {
	case *ast.DtoDef:
		dto, _ := model.NewDto(ctx.decl(&def.Header, def.End), ctx.fields(def.Fields), model.Collect)
		return dto
	case *ast.MethodDef:
		method, _ := model.NewMethod(ctx.decl(&def.Header, def.End),
			ctx.fields(def.Request), ctx.fields(def.Response), model.Collect)
		return method
	case *ast.EnumDef:
		values := make([]*model.EnumValueInfo, 0, len(def.Values))
		for i := range def.Values {
			v, _ := model.NewEnumValue(ctx.decl(&def.Values[i].Header, types.Span{}), model.Collect)
			values = append(values, v)
		}
		enum, _ := model.NewEnum(ctx.decl(&def.Header, def.End), values, model.Collect)
		return enum
	case *ast.ErrorSetDef:
		errs := make([]*model.ErrorInfo, 0, len(def.Errors))
		for i := range def.Errors {
			e, _ := model.NewErrorInfo(ctx.decl(&def.Errors[i].Header, types.Span{}), model.Collect)
			errs = append(errs, e)
		}
		set, _ := model.NewErrorSet(ctx.decl(&def.Header, def.End), errs, model.Collect)
		return set
	case *ast.ExternalDef:
		d := ctx.decl(&def.Header, def.End)
		if def.Kind == ast.ExternalEnum {
			ext, _ := model.NewExternalEnum(d, model.Collect)
			return ext
		}
		ext, _ := model.NewExternalDto(d, model.Collect)
		return ext
	default:
		ctx.Log(slog.LevelWarn, "unhandled definition type")
		return nil
	}
}

func (ctx *loweringContext) fields(fields []ast.Field) []*model.FieldInfo {
	out := make([]*model.FieldInfo, 0, len(fields))
	for i := range fields {
		f := &fields[i]
		d := ctx.decl(&f.Header, types.Span{})
		d.Parts = append(d.Parts, ctx.part(model.PartTypeName, f.TypeName.Span))
		if f.Required != nil {
			// A trailing '!' is shorthand for [required].
			attr, _ := model.NewAttribute("required", nil,
				[]model.Part{ctx.part(model.PartName, *f.Required)}, model.Collect)
			d.Attributes = append(d.Attributes, attr)
		}
		field, _ := model.NewField(d, f.TypeName.Name, model.Collect)
		out = append(out, field)
	}
	return out
}

func (ctx *loweringContext) decl(h *ast.Header, end types.Span) model.Decl {
	d := model.Decl{
		Name:       h.Name.Name,
		Attributes: ctx.attributes(h.Attributes),
		Summary:    h.Summary,
		Remarks:    ctx.remarks[h],
	}
	if !h.Keyword.IsEmpty() {
		d.Parts = append(d.Parts, ctx.part(model.PartKeyword, h.Keyword))
	}
	d.Parts = append(d.Parts, ctx.part(model.PartName, h.Name.Span))
	if !end.IsEmpty() {
		d.Parts = append(d.Parts, ctx.part(model.PartEnd, end))
	}
	return d
}

func (ctx *loweringContext) attributes(attrs []ast.Attribute) []*model.AttributeInfo {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]*model.AttributeInfo, 0, len(attrs))
	for _, a := range attrs {
		params := make([]*model.AttributeParameterInfo, 0, len(a.Parameters))
		for _, p := range a.Parameters {
			param, _ := model.NewAttributeParameter(p.Name.Name, p.Value, []model.Part{
				ctx.part(model.PartName, p.Name.Span),
				ctx.part(model.PartValue, p.ValueSpan),
			}, model.Collect)
			params = append(params, param)
		}
		attr, _ := model.NewAttribute(a.Name.Name, params,
			[]model.Part{ctx.part(model.PartName, a.Name.Span)}, model.Collect)
		out = append(out, attr)
	}
	return out
}

func (ctx *loweringContext) part(kind model.PartKind, span types.Span) model.Part {
	return model.Part{
		Kind:  kind,
		Start: ctx.source.Position(int(span.Start)),
		End:   ctx.source.Position(int(span.End)),
	}
}
