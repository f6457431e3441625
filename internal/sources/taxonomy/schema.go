package taxonomy

// File is the layout of the taxonomy YAML file:
//
//	categories:
//	  - key: tech
//	    label: Tech
//	    keywords: [tech, gadget, phone]
type File struct {
	Categories []CategoryProps `yaml:"categories"`
}

type CategoryProps struct {
	Key      string   `yaml:"key"`
	Label    string   `yaml:"label,omitempty"`
	Keywords []string `yaml:"keywords,omitempty"`
}
