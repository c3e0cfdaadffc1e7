// Package geom holds the geometric vocabulary shared by the resolver, the
// style registry and the rendering sinks.
//
// Raw input geometry ([Dimensions], [Position]) is made of [Value]s, each of
// which is either a concrete pixel amount or a symbolic expression such as
// "100%", "50%" or "center". Resolved geometry ([Size], [Point]) is always
// concrete.
//
// Values decode from JSON, TOML and YAML as either a number or a string.
// Strings that parse as numbers become concrete values:
//
//	{"w": 120, "h": "100%"}   // W = Px(120), H = Expr("100%")
//	{"x": "12", "y": "center"} // X = Px(12),  Y = Expr("center")
package geom
