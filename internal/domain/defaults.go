package domain

// DefaultCatalog returns the built-in starter catalog seeded on a fresh
// install with no persisted or remote state. Counters start at zero.
// Returns a fresh copy; callers own the slice.
func DefaultCatalog() []Comic {
	return []Comic{
		{
			ID:          "1",
			Title:       "Heavenly Throne",
			Description: "A warrior sets out to claim the summit of the heavens.",
			CoverImage:  "https://picsum.photos/seed/manhua1/600/800",
			Category:    "Action / Adventure",
			Rating:      4.8,
			Chapters: []Chapter{
				{ID: "c1", Number: 1, Title: "The Journey Begins", Pages: []string{
					"https://picsum.photos/seed/p1/800/1200",
					"https://picsum.photos/seed/p2/800/1200",
				}},
				{ID: "c2", Number: 2, Title: "An Unknown Power", IsPremium: true, Pages: []string{
					"https://picsum.photos/seed/p3/800/1200",
					"https://picsum.photos/seed/p4/800/1200",
				}},
			},
		},
		{
			ID:          "2",
			Title:       "Divine System",
			Description: "A young man wakes in another world bound to a peculiar system.",
			CoverImage:  "https://picsum.photos/seed/manhua2/600/800",
			Category:    "Fantasy / System",
			Rating:      4.5,
			Chapters: []Chapter{
				{ID: "c3", Number: 1, Title: "Second Life", Pages: []string{
					"https://picsum.photos/seed/p5/800/1200",
				}},
				{ID: "c4", Number: 2, Title: "First Quest", IsPremium: true, Pages: []string{
					"https://picsum.photos/seed/p6/800/1200",
				}},
			},
		},
		{
			ID:          "3",
			Title:       "Alchemy of Clouds",
			Description: "The search for the elixir of immortality among the clouds.",
			CoverImage:  "https://picsum.photos/seed/manhua3/600/800",
			Category:    "Drama / Historical",
			Rating:      4.2,
			Chapters: []Chapter{
				{ID: "c5", Number: 1, Title: "The Secret of Alchemy", Pages: []string{
					"https://picsum.photos/seed/p7/800/1200",
				}},
			},
		},
	}
}

// DefaultContacts returns the single built-in support contact seeded when
// no contact list has been persisted.
func DefaultContacts() []SupportContact {
	return []SupportContact{
		{
			ID:   "1",
			Name: "Support",
			Handles: map[string]string{
				"whatsapp": "07500000000",
				"telegram": "support",
			},
		},
	}
}
