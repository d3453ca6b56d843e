package types

// Shape validators for decoded store records. Each accepts the value
// produced by json.Unmarshal into an any and reports whether it can be
// trusted as the named entity. Unknown fields are ignored.

// IsItemList reports whether raw has the shape of a stored item list: a
// string uuid and title, and an items array of objects with string names.
func IsItemList(raw any) bool {
	obj, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	if !isString(obj, "uuid") || !isString(obj, "title") {
		return false
	}
	items, ok := obj["items"].([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok || !isString(entry, "name") {
			return false
		}
	}
	return true
}

// IsDirectoryEntry reports whether raw has every persisted directory entry
// field: title, uuid, key, lastUpdated.
func IsDirectoryEntry(raw any) bool {
	obj, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	return isString(obj, "title") &&
		isString(obj, "uuid") && obj["uuid"] != "" &&
		isString(obj, "key") && obj["key"] != "" &&
		isString(obj, "lastUpdated")
}

// IsDirectory reports whether raw has the shape of a directory record. The
// entries themselves are checked one by one with IsDirectoryEntry so that a
// single corrupt entry does not reject the whole directory.
func IsDirectory(raw any) bool {
	obj, ok := raw.(map[string]any)
	if !ok {
		return false
	}
	if !isString(obj, "version") {
		return false
	}
	_, ok = obj["entries"].([]any)
	return ok
}

func isString(obj map[string]any, field string) bool {
	_, ok := obj[field].(string)
	return ok
}
