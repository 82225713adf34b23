// Package lang implements a small language for dimensionally-aware physical
// quantities: declaring dimensions, units (with generated metric prefix
// variants), derived units, labels and structured entities, and evaluating
// arithmetic over them with unit checking and precision propagation.
//
// # Grammar
//
// Informal EBNF:
//
//	Program     → Statement*
//	Statement   → "make" Kind "called" Name ("," Name)* ["for"] [Expr]
//	            | "show" Expr
//	Kind        → unit_class | base_unit | derived_unit | entity_class
//	            | label | value
//	Expr        → Term (("+" | "-") Term)*
//	Term        → Power (("*" | "/") Power)*
//	Power       → Call ("^" Call)*                (right associative)
//	Call        → Atom ["(" [Expr ("," Expr)* [","]] ")"]
//	Atom        → Number | Name | String | "(" Expr ")" | Builder | "-" Atom
//	Builder     → "{" [Field ("," Field)* [","]] "}"
//	Field       → Name | Name ":" Expr
//
// Comments run from "//" to the end of the line and may appear anywhere
// whitespace may.
//
// # Example
//
//	make unit_class called Length
//	make unit_class called Time
//	make base_unit called Meter, Meters { class: Length, symbol: "m", metric }
//	make base_unit called Second, Seconds { class: Time, symbol: "s", partial_metric }
//	make derived_unit called Foot, Feet { symbol: "ft", value: 0.3048 * Meters }
//	make label called Velocity for Length / Time
//	show 3 * Kilometers / (1 * Second)
//
// # Namespaces
//
// Dimensions, units and entity classes are meta items; entities declared
// with "make value" are values; "make label" binds any result as a label.
// The three namespaces are independent. When a name is bound in several, an
// [AmbiguityContext] decides which binding an expression sees.
//
// # Precision
//
// Every [Scalar] carries a [Precision]. Numeric literals are exact. Sums take
// the coarser last significant digit of their operands; products take the
// fewer significant figures; relative errors combine in quadrature.
package lang
