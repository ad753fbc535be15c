// Package vetdir provides an embedded Go client for the veterinary
// directory. It wires the same listing and review services the HTTP API
// uses, talking to the document store directly.
//
// Supported backends: MongoDB (default for the server), Redis/Valkey,
// PostgreSQL (JSONB) and an in-process memory store.
//
//	client, _ := vetdir.New(ctx, vetdir.WithMongo("mongodb://localhost:27017", "vetdir"))
//	defer client.Close()
//
//	vetID, _ := client.Listings().Create(ctx, vetdir.Listing{
//	    Name:   "Acropolis Vet Clinic",
//	    City:   "Athens",
//	    Region: "Attica",
//	})
//	_, _ = client.Reviews().Create(ctx, vetdir.Review{
//	    VetID:      vetID,
//	    AuthorName: "Maria",
//	    Rating:     5,
//	})
//	hits, _ := client.Listings().Search(ctx, vetdir.Query{City: "ath"}, 10)
//
// Writing a review recomputes the listing's rating and review count on a
// best-effort basis: a failed recompute is logged and the review is kept.
package vetdir
