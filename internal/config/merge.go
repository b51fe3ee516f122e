package config

// DeepMerge returns a new tree with source merged onto target.
// Nested maps merge recursively; any other source value, including a slice, replaces the target value.
// Neither input is modified.
func DeepMerge(target map[string]any, source map[string]any) map[string]any {
	merged := make(map[string]any, len(target)+len(source))
	for key, value := range target {
		merged[key] = cloneValue(value)
	}
	for key, sourceValue := range source {
		sourceMap, sourceIsMap := sourceValue.(map[string]any)
		targetMap, targetIsMap := merged[key].(map[string]any)
		if sourceIsMap && targetIsMap {
			merged[key] = DeepMerge(targetMap, sourceMap)
			continue
		}
		merged[key] = cloneValue(sourceValue)
	}
	return merged
}

func cloneValue(value any) any {
	switch typedValue := value.(type) {
	case map[string]any:
		return DeepMerge(typedValue, nil)
	case []any:
		clonedValues := make([]any, len(typedValue))
		for index, element := range typedValue {
			clonedValues[index] = cloneValue(element)
		}
		return clonedValues
	default:
		return value
	}
}
