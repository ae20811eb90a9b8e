// Package httpapp provides the HTTP server for hnbot.
//
//	@title						hnbot API
//	@version					1.0
//	@description				A read-only aggregation layer over the Hacker News API.
//	@description
//	@description				Every operation is available three ways:
//	@description
//	@description				- plain REST endpoints under `/api/`
//	@description				- named tools: `GET /api/tools` lists them, `POST /api/tools/{name}` invokes one
//	@description				- resource URIs: `GET /api/resources/read?uri=hn://item/8863`
//	@description
//	@description				List endpoints resolve story ids to full items concurrently and keep
//	@description				upstream ranking order. Nothing is cached between requests; every
//	@description				response reflects a fresh upstream read.
//	@description
//	@description				```bash
//	@description				curl /api/stories/top?limit=5
//	@description				curl /api/story/8863/comments?comment_limit=10&max_depth=2
//	@description				curl -X POST /api/tools/find_stories_by_title -d '{"query":"quantum computing"}'
//	@description				```
//
//	@contact.name				hnbot
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@tag.name					Items
//	@tag.description			Individual items (stories, comments, jobs, polls) and user profiles.
//
//	@tag.name					Stories
//	@tag.description			Ranked story listings, title search, date filtering, and live streaming.
//
//	@tag.name					Comments
//	@tag.description			Depth-limited comment trees assembled from per-level batched fetches.
//
//	@tag.name					Content
//	@tag.description			Readable article extraction from story links, as markdown or text.
//
//	@tag.name					Tools
//	@tag.description			Schema-described callable operations (also served over NATS request/reply) and reusable prompt templates.
//
//	@tag.name					Resources
//	@tag.description			Addressable hn:// URIs for items, users, and listings.
package httpapp
