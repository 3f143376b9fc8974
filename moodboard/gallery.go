package moodboard

// GalleryImage is one curated inspiration image.
type GalleryImage struct {
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Category string `json:"category"`
}

var gallery = []GalleryImage{
	{
		URL:      "https://images.unsplash.com/photo-1517457373958-b7bdd4587205?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=400",
		Alt:      "Colorful abstract design",
		Category: "Visual Identity",
	},
	{
		URL:      "https://images.unsplash.com/photo-1523895665936-7bfe172b757d?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=400",
		Alt:      "Vibrant color palette",
		Category: "Color Scheme",
	},
	{
		URL:      "https://images.unsplash.com/photo-1511467687858-23d96c32e4ae?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=400",
		Alt:      "Mobile UI patterns",
		Category: "UI Patterns",
	},
	{
		URL:      "https://images.unsplash.com/photo-1543589077-47d81606c1bf?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=400",
		Alt:      "Typography samples",
		Category: "Typography",
	},
	{
		URL:      "https://images.unsplash.com/photo-1518770660439-4636190af475?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=400",
		Alt:      "Social media elements",
		Category: "Social Elements",
	},
	{
		URL:      "https://images.unsplash.com/photo-1508739773434-c26b3d09e071?ixlib=rb-4.0.3&auto=format&fit=crop&w=600&h=400",
		Alt:      "Gradients and transitions",
		Category: "Color Transitions",
	},
}

// Gallery returns a copy of the six seed images.
func Gallery() []GalleryImage {
	out := make([]GalleryImage, len(gallery))
	copy(out, gallery)
	return out
}
