package catalog

import "fmt"

// Redis key pattern helpers
//
// All Redis keys and Pub/Sub channels are namespaced by instance name so several
// catalog instances can share one Redis server.
//
// Key pattern: catalog:{instance_name}:{entity}:{id}
// Channel pattern: catalog:{instance_name}:{event_type}_events

// ProductKey returns the Redis key for a product hash.
// Pattern: catalog:{instance_name}:product:{product_id}
func ProductKey(instanceName, productID string) string {
	return fmt.Sprintf("catalog:%s:product:%s", instanceName, productID)
}

// ProductIndexKey returns the Redis key for the set of all product IDs.
// Pattern: catalog:{instance_name}:products
func ProductIndexKey(instanceName string) string {
	return fmt.Sprintf("catalog:%s:products", instanceName)
}

// NotificationEventsChannel returns the Pub/Sub channel name for notification events.
// Pattern: catalog:{instance_name}:notification_events
func NotificationEventsChannel(instanceName string) string {
	return fmt.Sprintf("catalog:%s:notification_events", instanceName)
}
