package lang

import (
	"context"
	"log/slog"
)

// ResolveExpression evaluates expr against the declarations of in, resolving
// names that are bound in several namespaces according to actx.
func (in *Instance) ResolveExpression(
	ctx context.Context,
	expr Expression,
	actx AmbiguityContext,
) (Data, error) {
	e := evalContext{in: in, actx: actx}

	d, err := e.eval(expr)
	if err != nil {
		return nil, err
	}

	in.logger.TraceContext(ctx, "resolved expression",
		slog.String("expression", expr.String()),
		slog.String("kind", dataKind(d)))

	return d, nil
}

// evalContext carries state through one evaluation.
type evalContext struct {
	in   *Instance
	actx AmbiguityContext
}

func (e evalContext) eval(expr Expression) (Data, error) {
	switch x := expr.(type) {
	case NumberLit:
		return Unitless(x.Value, Exact()), nil

	case StringLit:
		return String(x.Value), nil

	case NameRef:
		d, err := e.in.Lookup(x.Name, e.actx)
		if err != nil {
			return nil, WrapError(err).WithPosition(x.At)
		}

		return d, nil

	case UnaryExpr:
		operand, err := e.eval(x.Operand)
		if err != nil {
			return nil, err
		}

		d, err := applyUnary(x.Op, operand)
		if err != nil {
			return nil, WrapError(err).WithPosition(x.At)
		}

		return d, nil

	case BinaryExpr:
		lhs, err := e.eval(x.LHS)
		if err != nil {
			return nil, err
		}

		rhs, err := e.eval(x.RHS)
		if err != nil {
			return nil, err
		}

		d, err := e.in.applyBinary(lhs, x.Op, rhs)
		if err != nil {
			return nil, WrapError(err).WithPosition(x.At)
		}

		return d, nil

	case CallExpr:
		return nil, ErrUnimplemented.WithPosition(x.At).
			With(slog.String("feature", "function application"),
				slog.String("expression", x.String()))

	case EntityBuilder:
		return e.buildEntity(x)

	default:
		return nil, ErrTypeMismatch.With(slog.String("expression", expr.String()))
	}
}

// buildEntity resolves each class tag to an entity class and each property
// expression to data.
func (e evalContext) buildEntity(b EntityBuilder) (*Entity, error) {
	classes := make([]EntityClassID, 0, len(b.Classes))

	for _, tag := range b.Classes {
		d, err := e.in.Lookup(tag.Name, PreferMeta)
		if err != nil {
			return nil, WrapError(err).WithPosition(tag.At)
		}

		ec, ok := d.(EntityClassData)
		if !ok {
			return nil, ErrTypeMismatch.WithPosition(tag.At).
				With(slog.String("class", tag.Name),
					slog.String("expected", dataKind(EntityClassData{})),
					slog.String("got", dataKind(d)))
		}

		classes = append(classes, ec.ID)
	}

	props := make(map[string]Data, len(b.Properties))

	for _, p := range b.Properties {
		if _, dup := props[p.Name]; dup {
			return nil, ErrTypeMismatch.WithPosition(p.Value.Pos()).
				With(slog.String("duplicate_property", p.Name))
		}

		d, err := e.eval(p.Value)
		if err != nil {
			return nil, err
		}

		props[p.Name] = d
	}

	return NewEntity(props, classes...), nil
}

func applyUnary(op UnaryOp, operand Data) (Data, error) {
	if s, ok := operand.(Scalar); ok && op == Negate {
		return s.Neg(), nil
	}

	return nil, ErrTypeMismatch.With(
		slog.String("op", op.String()),
		slog.String("operand", dataKind(operand)))
}

// applyBinary implements the operator table over every pairing of Data
// variants.
func (in *Instance) applyBinary(lhs Data, op BinaryOp, rhs Data) (Data, error) {
	mismatch := ErrTypeMismatch.With(
		slog.String("op", op.String()),
		slog.String("lhs", dataKind(lhs)),
		slog.String("rhs", dataKind(rhs)))

	switch l := lhs.(type) {
	case UnitClassData:
		r, ok := rhs.(UnitClassData)
		if !ok {
			return nil, mismatch
		}

		switch op {
		case Mul:
			return UnitClassData{Class: l.Class.Mul(r.Class)}, nil
		case Div:
			return UnitClassData{Class: l.Class.Div(r.Class)}, nil
		default:
			return nil, mismatch
		}

	case UnitData:
		switch r := rhs.(type) {
		case UnitData:
			switch op {
			case Mul:
				return UnitData{Unit: l.Unit.Mul(r.Unit)}, nil
			case Div:
				return UnitData{Unit: l.Unit.Div(r.Unit)}, nil
			default:
				return nil, mismatch
			}

		case Scalar:
			if op != Mul && op != Div {
				return nil, mismatch
			}

			return in.applyScalar(in.AsScalar(l.Unit), op, r)

		default:
			return nil, mismatch
		}

	case Scalar:
		switch r := rhs.(type) {
		case Scalar:
			return in.applyScalar(l, op, r)

		case UnitData:
			if op != Mul && op != Div {
				return nil, mismatch
			}

			return in.applyScalar(l, op, in.AsScalar(r.Unit))

		default:
			return nil, mismatch
		}

	case EntityClassData, *Entity, String:
		return nil, mismatch

	default:
		return nil, mismatch
	}
}

func (in *Instance) applyScalar(lhs Scalar, op BinaryOp, rhs Scalar) (Data, error) {
	switch op {
	case Add:
		return lhs.Add(rhs)
	case Sub:
		return lhs.Sub(rhs)
	case Mul:
		return lhs.Mul(rhs), nil
	case Div:
		return lhs.Div(rhs), nil
	case Pow:
		return lhs.Pow(rhs, in), nil
	default:
		return nil, ErrTypeMismatch.With(slog.String("op", op.String()))
	}
}
