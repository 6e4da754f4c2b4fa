package redis

import "fmt"

const ns = "restaurante:v1"

func KeyFloorPlan() string {
	return ns + ":mesas:floorplan"
}

func KeyTableTab(tableID int64) string {
	return fmt.Sprintf("%s:mesas:%d:tab", ns, tableID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelTablesChanged() string {
	return ns + ":mesas:changed"
}
