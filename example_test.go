package orm_test

import (
	"context"
	"fmt"
	"log"

	orm "github.com/bowtieworks/automerge-orm"
	"github.com/bowtieworks/automerge-orm/pkg/schema"
)

type Book struct {
	ISBN   string `automerge:"isbn,key"`
	Title  string `automerge:"title"`
	Author string `automerge:"author"`
	Year   *int   `automerge:"year"`
}

func Example() {
	ctx := context.Background()

	mgr, err := orm.Open("", orm.WithAdapter("mem"))
	if err != nil {
		log.Fatal(err)
	}

	books, err := orm.NewTyped[Book](mgr)
	if err != nil {
		log.Fatal(err)
	}

	year := 2015
	book := &Book{
		ISBN:   "978-0134190440",
		Title:  "The Go Programming Language",
		Author: "Donovan & Kernighan",
		Year:   &year,
	}
	if err := books.Save(ctx, book); err != nil {
		log.Fatal(err)
	}

	found, err := books.Find(ctx, "978-0134190440")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s (%d)\n", found.Title, *found.Year)

	// Output: The Go Programming Language (2015)
}

func Example_dynamic() {
	ctx := context.Background()

	reg := orm.NewRegistry()
	if err := reg.Register(orm.Descriptor{
		TypeID:     "note",
		Collection: "notes",
		Identity:   "id",
		Codec:      schema.StringCodec{},
		Fields: []orm.Field{
			{Key: "text", Kind: schema.FieldString},
		},
	}); err != nil {
		log.Fatal(err)
	}

	mgr, err := orm.Open("", orm.WithAdapter("mem"), orm.WithRegistry(reg))
	if err != nil {
		log.Fatal(err)
	}
	notes, err := mgr.Repository("note")
	if err != nil {
		log.Fatal(err)
	}

	for _, id := range []string{"n1", "n2"} {
		rec := orm.NewRecord(id).Set("text", "note "+id)
		if err := notes.Save(ctx, rec); err != nil {
			log.Fatal(err)
		}
	}

	for rec, err := range notes.All(ctx) {
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %s\n", rec.ID, rec.Fields["text"])
	}

	// Output:
	// n1: note n1
	// n2: note n2
}
