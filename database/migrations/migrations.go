// Package migrations registers the schema history. Import it for side
// effects wherever migrations must run:
//
//	import _ "github.com/shashiranjanraj/storehub/database/migrations"
package migrations
