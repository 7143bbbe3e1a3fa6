package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the works, work_items, bids,
// office_settings and generated_documents collections exist.
func Setup(app *pocketbase.PocketBase) {
	works := ensureCollection(app, "works", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "nit_number", Required: true})
		c.Fields.Add(&core.TextField{Name: "nit_date", Required: false})
		c.Fields.Add(&core.TextField{Name: "work_name", Required: true})
		// Not a required field: PocketBase treats 0 as blank, and a zero
		// estimate is a legal value. Struct validation guards the range.
		c.Fields.Add(&core.NumberField{Name: "estimated_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "earnest_money", Required: false})
		c.Fields.Add(&core.NumberField{Name: "completion_months", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tenders_sold", Required: false})
		c.Fields.Add(&core.NumberField{Name: "tenders_received", Required: false})
		c.Fields.Add(&core.TextField{Name: "receipt_date", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "work_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "work",
			Required:      true,
			CollectionId:  works.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sr_no", Required: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.TextField{Name: "unit", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "amount", Required: false})
	})

	ensureCollection(app, "bids", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "work",
			Required:      true,
			CollectionId:  works.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sno", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "contact", Required: false})
		c.Fields.Add(&core.NumberField{Name: "quoted_percentage", Required: false})
		// Derived by the ranking engine; never entered by hand.
		c.Fields.Add(&core.NumberField{Name: "quoted_amount", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rank", Required: false})
		c.Fields.Add(&core.NumberField{Name: "rank_percentile", Required: false})
		c.Fields.Add(&core.BoolField{Name: "is_l1", Required: false})
	})

	ensureCollection(app, "office_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "office_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "authority_title", Required: true})
		c.Fields.Add(&core.TextField{Name: "government_line", Required: false})
		c.Fields.Add(&core.TextField{Name: "head_of_account", Required: false})
		c.Fields.Add(&core.NumberField{Name: "validity_days", Required: false})
		c.Fields.Add(&core.NumberField{Name: "stamp_duty", Required: false})
	})

	ensureCollection(app, "generated_documents", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "work",
			Required:      true,
			CollectionId:  works.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "doc_type", Required: true})
		c.Fields.Add(&core.TextField{Name: "format", Required: true})
		c.Fields.Add(&core.TextField{Name: "file_name", Required: true})
		c.Fields.Add(&core.TextField{Name: "generation_id", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
