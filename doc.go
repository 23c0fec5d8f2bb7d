// Package jot is the Composition Root for the jot note store.
//
// It connects the domain (notes, the repository and its merge rules) with the
// storage adapters and the exchange codecs using the Hexagonal Architecture pattern.
//
// Notes live in a single key-value slot holding a JSON array. The slot can be a
// file in a directory (default), an entry of a bbolt database, an in-memory map,
// or a MongoDB document. Notes travel in and out of the store as delimited text
// (CSV), markup (XML) or YAML.
//
// Usage:
//
//	repo, err := jot.New("./.jot", jot.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer repo.Close()
//
//	note, err := repo.Save(ctx, jot.Note{Title: "Groceries", Body: "milk"})
//
//	transfer := jot.NewTransfer(repo)
//	export, err := transfer.ExportAll(notes)
package jot
