// Package catalog provides the product record types and the Redis-backed store
// used by the catalog form engine.
//
// # Overview
//
// Products are the records an operator creates and edits through the form.
// Each product is identified by a short operator-chosen ID (3-10 characters)
// that must be unique within an instance. The store only enforces identity;
// field-level rules live in the form package.
//
// Notifications raised by a form session can be broadcast to other processes
// (for example `catalog watch`) through the instance's notification channel.
//
// # Usage Example
//
//	client, err := catalog.NewClient(&redis.Options{Addr: "localhost:6379"}, "default-1")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	exists, err := client.ProductExists(ctx, "trj-crd")
//
// # Redis Schema
//
// All Redis keys follow the pattern: catalog:{instance_name}:{entity}:{id}
//
// Products: catalog:{instance_name}:product:{product_id}
// Product index: catalog:{instance_name}:products
//
// Pub/Sub channels: catalog:{instance_name}:{event_type}_events
//
// Notification Events: catalog:{instance_name}:notification_events
package catalog
