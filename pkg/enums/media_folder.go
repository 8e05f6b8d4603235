package enums

// MediaFolder names an upload destination inside the managed media namespace.
type MediaFolder string

const (
	MediaFolderProducts   MediaFolder = "products"
	MediaFolderCategories MediaFolder = "categories"
	MediaFolderAvatars    MediaFolder = "avatars"
)

var validMediaFolders = []MediaFolder{
	MediaFolderProducts,
	MediaFolderCategories,
	MediaFolderAvatars,
}

// String implements fmt.Stringer.
func (m MediaFolder) String() string {
	return string(m)
}

// IsValid reports whether the folder is known.
func (m MediaFolder) IsValid() bool {
	for _, candidate := range validMediaFolders {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaFolder converts raw input into a MediaFolder, defaulting unknown
// or empty input to the products folder.
func ParseMediaFolder(value string) MediaFolder {
	for _, candidate := range validMediaFolders {
		if string(candidate) == value {
			return candidate
		}
	}
	return MediaFolderProducts
}
