package types

// builtinEnv returns the root value environment pre-shaped for the host
// globals the inferer special-cases: a shadow value environment with
// pre-shaped objects for console, Math, JSON, Object, Array, Promise,
// Date, Error, process, require.
func builtinEnv() *Env {
	e := NewEnv(nil)

	fn := func(ret Type, params ...FuncParam) *Function { return &Function{Params: params, Return: ret} }
	method := func(obj *Object, name string, f *Function) { obj.Set(name, f) }

	console := NewObject()
	logFn := fn(VoidType{}, FuncParam{Name: "args", Type: Array{Elem: AnyType{}}})
	method(console, "log", logFn)
	method(console, "error", logFn)
	method(console, "warn", logFn)
	method(console, "info", logFn)
	method(console, "debug", logFn)
	e.SetValue("console", console)

	math := NewObject()
	math.Set("PI", Number)
	math.Set("E", Number)
	for _, m := range []string{"floor", "ceil", "round", "abs", "sqrt", "pow", "min", "max", "random", "log", "sign", "trunc"} {
		method(math, m, fn(Number, FuncParam{Name: "x", Type: Number}))
	}
	e.SetValue("Math", math)

	json := NewObject()
	method(json, "stringify", fn(String_, FuncParam{Name: "v", Type: AnyType{}}))
	method(json, "parse", fn(AnyType{}, FuncParam{Name: "s", Type: String_}))
	e.SetValue("JSON", json)

	object := NewObject()
	method(object, "keys", fn(Array{Elem: String_}, FuncParam{Name: "o", Type: AnyType{}}))
	method(object, "values", fn(Array{Elem: AnyType{}}, FuncParam{Name: "o", Type: AnyType{}}))
	method(object, "entries", fn(Array{Elem: Tuple{Elems: []Type{String_, AnyType{}}}}, FuncParam{Name: "o", Type: AnyType{}}))
	method(object, "freeze", fn(AnyType{}, FuncParam{Name: "o", Type: AnyType{}}))
	method(object, "assign", fn(AnyType{}))
	e.SetValue("Object", object)

	array := NewObject()
	method(array, "isArray", fn(Boolean, FuncParam{Name: "v", Type: AnyType{}}))
	method(array, "from", fn(Array{Elem: AnyType{}}))
	e.SetValue("Array", array)

	promise := NewObject()
	method(promise, "resolve", fn(Generic{Name: "Promise", Args: []Type{AnyType{}}}))
	method(promise, "reject", fn(Generic{Name: "Promise", Args: []Type{AnyType{}}}))
	method(promise, "all", fn(Generic{Name: "Promise", Args: []Type{Array{Elem: AnyType{}}}}))
	method(promise, "race", fn(Generic{Name: "Promise", Args: []Type{AnyType{}}}))
	e.SetValue("Promise", promise)

	date := NewObject()
	method(date, "now", fn(Number))
	e.SetValue("Date", date)

	errObj := NewObject()
	errObj.Set("message", String_)
	errObj.Set("name", String_)
	errObj.Set("stack", String_)
	e.SetValue("Error", errObj)

	process := NewObject()
	process.Set("argv", Array{Elem: String_})
	process.Set("env", NewObject())
	method(process, "exit", fn(VoidType{}, FuncParam{Name: "code", Type: Number}))
	e.SetValue("process", process)

	e.SetValue("require", fn(AnyType{}, FuncParam{Name: "id", Type: String_}))
	e.SetValue("globalThis", NewObject())
	e.SetValue("fetch", fn(Generic{Name: "Promise", Args: []Type{AnyType{}}}, FuncParam{Name: "url", Type: String_}))
	e.SetValue("undefined", UndefinedType{})
	e.SetValue("NaN", Number)
	e.SetValue("Infinity", Number)

	return e
}

// arrayMemberType hardcodes the member shape for arrays and strings: a
// length: number field plus a list of method names typed any.
func arrayMemberType(prop string) (Type, bool) {
	if prop == "length" {
		return Number, true
	}
	switch prop {
	case "push", "pop", "shift", "unshift", "slice", "splice", "map", "filter",
		"reduce", "forEach", "find", "findIndex", "includes", "indexOf", "join",
		"concat", "sort", "reverse", "flat", "flatMap", "some", "every":
		return AnyType{}, true
	}
	return nil, false
}

func stringMemberType(prop string) (Type, bool) {
	if prop == "length" {
		return Number, true
	}
	switch prop {
	case "slice", "split", "trim", "toUpperCase", "toLowerCase", "replace",
		"includes", "indexOf", "startsWith", "endsWith", "charAt", "padStart",
		"padEnd", "repeat", "concat", "match":
		return AnyType{}, true
	}
	return nil, false
}
