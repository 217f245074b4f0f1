package result

// Combine collects the values of results in order. The first failure stops
// the scan and is returned; later failures are not inspected. Absent values
// contribute the zero value of T.
func Combine[T any](results []Result[T]) Result[[]T] {
	values := make([]T, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			return Failure[[]T](r.err)
		}
		values = append(values, r.value)
	}
	return Success(values)
}

// CombineAll is the variadic form of Combine.
func CombineAll[T any](results ...Result[T]) Result[[]T] {
	return Combine(results)
}

// CombineFuncs evaluates fns in order and combines their results. Suppliers
// after the first failure are never called.
func CombineFuncs[T any](fns ...func() Result[T]) Result[[]T] {
	values := make([]T, 0, len(fns))
	for _, fn := range fns {
		r := fn()
		if r.err != nil {
			return Failure[[]T](r.err)
		}
		values = append(values, r.value)
	}
	return Success(values)
}
