package internal

// Table is a configured Notion database and the logical name used for its
// backup files.
type Table struct {
	Name  string `yaml:"name"`
	ID    string `yaml:"id"`
	IDEnv string `yaml:"id_env"`
}

func (t Table) displayName() string {
	str := t.Name
	if t.ID != "" {
		str = str + " (" + t.ID + ")"
	}
	return str
}

func configuredTables(tables []Table) int {
	count := 0
	for _, t := range tables {
		if t.ID != "" {
			count++
		}
	}
	return count
}
