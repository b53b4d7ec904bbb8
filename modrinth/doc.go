// Package modrinth provides a client for the Modrinth v2 API.
//
// Modrinth hosts Minecraft mods, modpacks and related content. This package
// implements a typed client with automatic pagination and detailed decode
// errors.
//
// # Architecture
//
//   - Executor and Get: issue a GET, read the whole body, check the status and
//     decode JSON into a typed value
//   - Paginator: turns the offset/limit search endpoint into one sequence
//   - Client: endpoint wrappers over a shared Executor
//   - EncodeQuery: renders parameter structs as query strings
//
// # Usage
//
//	logger := zerolog.New(os.Stdout)
//	client, err := modrinth.NewClient("", logger,
//		modrinth.WithUserAgent("me/my-tool/1.0"),
//		modrinth.WithTimeout(10*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	params := modrinth.SearchParams{
//		Query:  "sodium",
//		Facets: [][]modrinth.Facet{{modrinth.Category("fabric")}},
//		Limit:  50,
//	}
//	for hit, err := range client.SearchProjectsIter(params).All(ctx) {
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Println(hit.Title)
//	}
//
// # Error Handling
//
// Every error returned by a request matches one of ErrTransport,
// ErrStatusNotOK, ErrDeserialize or ErrInput with errors.Is. The concrete
// types carry the request URL and, where a response arrived, its raw body:
//
//	var derr *modrinth.DeserializeError
//	if errors.As(err, &derr) {
//		log.Printf("schema drift at %s: %v", derr.Path, derr.Err)
//	}
//
// Nothing is retried.
package modrinth
