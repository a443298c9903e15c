package program

// replaceByKey returns incoming in its own order, with every element that matches an
// element of existing merged over it. Each existing element is merged at most once;
// existing elements without a match are dropped.
//
// An incoming element matches the existing element with the same non-zero identity
// and key first. Otherwise it takes the first unclaimed existing element with the same
// key, so the nth duplicate of a key pairs with the nth remaining one.
func replaceByKey[T any, K comparable](existing, incoming []T, ident func(T) ID, key func(T) K, merge func(old, upd T) T) []T {
	claimed := make([]bool, len(existing))
	pair := make([]int, len(incoming))

	byIdent := make(map[ID]int, len(existing))
	for i, old := range existing {
		if id := ident(old); id != 0 {
			byIdent[id] = i
		}
	}
	for j, upd := range incoming {
		pair[j] = -1
		id := ident(upd)
		if id == 0 {
			continue
		}
		if i, ok := byIdent[id]; ok && !claimed[i] && key(existing[i]) == key(upd) {
			claimed[i] = true
			pair[j] = i
		}
	}

	byKey := make(map[K][]int, len(existing))
	for i, old := range existing {
		if !claimed[i] {
			k := key(old)
			byKey[k] = append(byKey[k], i)
		}
	}
	for j, upd := range incoming {
		if pair[j] >= 0 {
			continue
		}
		k := key(upd)
		if queue := byKey[k]; len(queue) > 0 {
			pair[j] = queue[0]
			byKey[k] = queue[1:]
		}
	}

	out := make([]T, 0, len(incoming))
	for j, upd := range incoming {
		if i := pair[j]; i >= 0 {
			out = append(out, merge(existing[i], upd))
			continue
		}
		out = append(out, upd)
	}
	return out
}

// patchByKey returns existing in its own order, with every element that shares a key
// with an element of incoming merged with it. Incoming elements without a match are ignored.
// The bool result reports whether anything matched.
func patchByKey[T any, K comparable](existing, incoming []T, key func(T) K, merge func(old, upd T) T) ([]T, bool) {
	index := indexByKey(incoming, key)
	out := make([]T, len(existing))
	matched := false
	for i, old := range existing {
		if j, ok := index[key(old)]; ok {
			out[i] = merge(old, incoming[j])
			matched = true
			continue
		}
		out[i] = old
	}
	return out, matched
}

// indexByKey maps each key to the position of its first occurrence.
func indexByKey[T any, K comparable](items []T, key func(T) K) map[K]int {
	index := make(map[K]int, len(items))
	for i, it := range items {
		k := key(it)
		if _, dup := index[k]; !dup {
			index[k] = i
		}
	}
	return index
}

func exerciseIdent(e Exercise) ID { return e.ID }

func exerciseCatalogKey(e Exercise) ID { return e.CatalogExerciseID }

func setOrderKey(s Set) int { return s.Order }

// mergeExercise overlays the non-zero fields of upd on old. The merged exercise keeps
// old's identity and catalog reference; old's sets are kept when upd carries none.
func mergeExercise(old, upd Exercise) Exercise {
	out := old.Clone()
	if upd.Name != "" {
		out.Name = upd.Name
	}
	if upd.Muscle != "" {
		out.Muscle = upd.Muscle
	}
	if upd.Equipment != "" {
		out.Equipment = upd.Equipment
	}
	if upd.ImageURL != "" {
		out.ImageURL = upd.ImageURL
	}
	if upd.Sets != nil {
		out.Sets = upd.Clone().Sets
	}
	return out
}

// mergeSet overlays the non-nil fields of upd on old.
func mergeSet(old, upd Set) Set {
	out := old.Clone()
	if upd.Weight != nil {
		w := *upd.Weight
		out.Weight = &w
	}
	if upd.Reps != nil {
		r := *upd.Reps
		out.Reps = &r
	}
	return out
}
