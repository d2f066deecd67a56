package machine

import "strconv"

// Float is the type of a floating point number (spec.md section 3,
// "Flonum(f64)").
type Float float64

func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (Float) Type() string     { return "Float" }
