package interp

// Argument helpers for native functions. They report problems as
// position-less TypeErrors; the interpreter stamps the call site.

// Arg returns args[idx], or nil when the caller passed fewer arguments.
func Arg(args []Value, idx int) Value {
	if idx < len(args) {
		return args[idx]
	}
	return nil
}

// NumberArg returns args[idx] as a number.
func NumberArg(fn string, args []Value, idx int) (float64, error) {
	v := Arg(args, idx)
	n, ok := v.(float64)
	if !ok {
		return 0, Errorf(TypeError, "%s: argument %d must be a number, got %s", fn, idx+1, TypeName(v))
	}
	return n, nil
}

// StringArg returns args[idx] as a string.
func StringArg(fn string, args []Value, idx int) (string, error) {
	v := Arg(args, idx)
	s, ok := v.(string)
	if !ok {
		return "", Errorf(TypeError, "%s: argument %d must be a string, got %s", fn, idx+1, TypeName(v))
	}
	return s, nil
}

// OptionalStringArg is StringArg that accepts a missing or nil argument.
func OptionalStringArg(fn string, args []Value, idx int, def string) (string, error) {
	if Arg(args, idx) == nil {
		return def, nil
	}
	return StringArg(fn, args, idx)
}

// ArrayArg returns args[idx] as an array.
func ArrayArg(fn string, args []Value, idx int) (*Array, error) {
	v := Arg(args, idx)
	a, ok := v.(*Array)
	if !ok {
		return nil, Errorf(TypeError, "%s: argument %d must be an array, got %s", fn, idx+1, TypeName(v))
	}
	return a, nil
}
