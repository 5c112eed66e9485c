package headtable

var _ PreferencesAdapter = new(MemoryPreferencesAdapter)

// MemoryPreferencesAdapter keeps persisted preferences in memory.
// The zero value is ready to use.
type MemoryPreferencesAdapter struct {
	docs     map[string]*PreferencesDocument
	persists int
}

func (a *MemoryPreferencesAdapter) Persist(key string, doc *PreferencesDocument) error {
	if a.docs == nil {
		a.docs = make(map[string]*PreferencesDocument)
	}
	a.docs[key] = cloneDocument(doc)
	a.persists++
	return nil
}

func (a *MemoryPreferencesAdapter) Restore(key string) (*PreferencesDocument, error) {
	doc, ok := a.docs[key]
	if !ok {
		return nil, nil
	}
	return cloneDocument(doc), nil
}

// Persists returns how often Persist was called.
func (a *MemoryPreferencesAdapter) Persists() int {
	return a.persists
}

func cloneDocument(doc *PreferencesDocument) *PreferencesDocument {
	if doc == nil {
		return nil
	}
	p := &Preferences{plugins: make(map[string]*pluginBucket)}
	p.RestoreDocument(doc)
	return p.Serialize()
}
