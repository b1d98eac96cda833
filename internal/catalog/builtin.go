package catalog

// Builtin returns the platform resource catalog: one schema per admin screen.
// Page sizes and filter surfaces mirror the console UI; endpoint segments
// follow the /api/<plural> convention.
func Builtin() (*Catalog, error) {
	return New(
		productSchema(),
		categorySchema(),
		orderSchema(),
		courseSchema(),
		webinarSchema(),
		workshopSchema(),
		recipeSchema(),
		detoxPlanSchema(),
		meetingSchema(),
		serviceSchema(),
		staffSchema(),
		jobSchema(),
	)
}

func productSchema() Schema {
	return Schema{
		Name:         "product",
		Plural:       "products",
		TitleField:   "name",
		SearchFields: []string{"name", "description"},
		EnumFilters:  []string{"category", "status"},
		Required:     []string{"name", "description", "price", "category"},
		Numeric: map[string]Bounds{
			"price": MinZero(),
			"stock": MinZero(),
		},
		ListFields:   []string{"images", "tags"},
		Statuses:     []string{"draft", "published", "archived"},
		UploadFields: map[string]string{"thumbnail": "thumbnail"},
		PageSize:     10,
		Document: map[string]any{
			"type":     "object",
			"required": []any{"name", "price"},
			"properties": map[string]any{
				"name":  map[string]any{"type": "string", "minLength": 1},
				"price": map[string]any{"type": "number", "minimum": 0},
			},
		},
	}
}

func categorySchema() Schema {
	return Schema{
		Name:         "category",
		Plural:       "categories",
		TitleField:   "name",
		SearchFields: []string{"name", "description"},
		Required:     []string{"name"},
		Statuses:     []string{"active", "archived"},
		UploadFields: map[string]string{"image": "image"},
		PageSize:     10,
	}
}

func orderSchema() Schema {
	return Schema{
		Name:           "order",
		Plural:         "orders",
		TitleField:     "orderNumber",
		SearchFields:   []string{"orderNumber", "customerName", "customerEmail"},
		EnumFilters:    []string{"status"},
		Required:       []string{"status"},
		RecordFields:   []string{"shippingAddress"},
		Statuses:       []string{"pending", "processing", "shipped", "delivered", "cancelled"},
		PageSize:       20,
		ServerPaged:    true,
		HasStatusRoute: true,
	}
}

func courseSchema() Schema {
	return Schema{
		Name:         "course",
		Plural:       "courses",
		TitleField:   "title",
		SearchFields: []string{"title", "description"},
		EnumFilters:  []string{"category", "status"},
		Required:     []string{"title", "description", "price", "category"},
		Numeric: map[string]Bounds{
			"price": MinZero(),
		},
		ListFields:   []string{"prerequisites", "videos", "tags"},
		Statuses:     []string{"draft", "published", "archived"},
		UploadFields: map[string]string{"thumbnail": "thumbnail", "introVideo": "video"},
		PageSize:     10,
	}
}

func webinarSchema() Schema {
	return Schema{
		Name:         "webinar",
		Plural:       "webinars",
		TitleField:   "title",
		SearchFields: []string{"title", "speaker"},
		EnumFilters:  []string{"status"},
		Required:     []string{"title", "speaker", "date", "startTime"},
		Numeric: map[string]Bounds{
			"price": MinZero(),
		},
		ListFields:   []string{"topics"},
		Statuses:     []string{"upcoming", "live", "completed", "cancelled"},
		UploadFields: map[string]string{"thumbnail": "thumbnail", "recording": "video"},
		PageSize:     9,
		Schedule:     TimeFields{Date: "date", Start: "startTime", End: "endTime"},
	}
}

func workshopSchema() Schema {
	return Schema{
		Name:         "workshop",
		Plural:       "workshops",
		TitleField:   "title",
		SearchFields: []string{"title", "instructor"},
		EnumFilters:  []string{"status"},
		Required:     []string{"title", "instructor", "date"},
		Numeric: map[string]Bounds{
			"price":    MinZero(),
			"capacity": MinZero(),
		},
		ListFields:   []string{"materials", "topics"},
		Statuses:     []string{"upcoming", "completed", "cancelled"},
		UploadFields: map[string]string{"thumbnail": "thumbnail"},
		PageSize:     9,
		Schedule:     TimeFields{Date: "date", Start: "startTime", End: "endTime"},
	}
}

func recipeSchema() Schema {
	return Schema{
		Name:         "recipe",
		Plural:       "recipes",
		TitleField:   "title",
		SearchFields: []string{"title", "description"},
		EnumFilters:  []string{"category"},
		Required:     []string{"title", "description", "category"},
		Numeric: map[string]Bounds{
			"prepTime": MinZero(),
			"cookTime": MinZero(),
			"servings": MinZero(),
			"calories": MinZero(),
		},
		ListFields:   []string{"ingredients", "instructions", "tags"},
		RecordFields: []string{"nutritionFacts"},
		Statuses:     []string{"draft", "published"},
		UploadFields: map[string]string{"image": "image"},
		PageSize:     12,
	}
}

func detoxPlanSchema() Schema {
	return Schema{
		Name:         "detoxplan",
		Plural:       "detox-plans",
		TitleField:   "title",
		SearchFields: []string{"title", "description"},
		EnumFilters:  []string{"plan", "status"},
		Required:     []string{"title", "description", "duration"},
		Numeric: map[string]Bounds{
			"duration": MinZero(),
			"price":    MinZero(),
		},
		RecordLists: map[string][]string{
			"meals": {"name", "description", "time"},
		},
		ListFields:   []string{"guidelines"},
		Statuses:     []string{"draft", "active", "archived"},
		UploadFields: map[string]string{"image": "image"},
		PageSize:     10,
	}
}

func meetingSchema() Schema {
	return Schema{
		Name:         "meeting",
		Plural:       "meetings",
		TitleField:   "title",
		SearchFields: []string{"title", "host"},
		Required:     []string{"title", "host", "date", "startTime", "endTime"},
		ListFields:   []string{"participants"},
		Statuses:     []string{"scheduled", "completed", "cancelled"},
		PageSize:     10,
		Schedule:     TimeFields{Date: "date", Start: "startTime", End: "endTime"},
	}
}

func serviceSchema() Schema {
	return Schema{
		Name:         "service",
		Plural:       "services",
		TitleField:   "name",
		SearchFields: []string{"name", "description"},
		EnumFilters:  []string{"status"},
		Required:     []string{"name", "description", "price"},
		Numeric: map[string]Bounds{
			"price": MinZero(),
		},
		ListFields:   []string{"features"},
		Statuses:     []string{"active", "inactive"},
		UploadFields: map[string]string{"image": "image"},
		// Service marketing assets live on the third-party asset host.
		UseAssetHost: true,
		PageSize:     10,
	}
}

func staffSchema() Schema {
	return Schema{
		Name:         "staff",
		Plural:       "staff",
		TitleField:   "name",
		SearchFields: []string{"name", "email", "role"},
		EnumFilters:  []string{"role", "status"},
		Required:     []string{"name", "email", "role"},
		ListFields:   []string{"certifications"},
		Statuses:     []string{"active", "inactive"},
		UploadFields: map[string]string{"avatar": "image"},
		PageSize:     15,
	}
}

func jobSchema() Schema {
	return Schema{
		Name:         "job",
		Plural:       "jobs",
		TitleField:   "title",
		SearchFields: []string{"title", "department", "location"},
		EnumFilters:  []string{"department", "status"},
		Required:     []string{"title", "department", "description"},
		ListFields:   []string{"requirements", "responsibilities"},
		Statuses:     []string{"open", "closed", "draft"},
		PageSize:     10,
	}
}
