package checkout

import "go.mongodb.org/mongo-driver/bson/primitive"

// split partitions resolved items by farmer. Groups come out in the order
// their farmer was first seen, items keep their encounter order inside a
// group, and each group's total is the sum of snapshotted price times
// quantity.
func split(items []ResolvedItem) []Group {
	index := make(map[primitive.ObjectID]int)
	var groups []Group

	for _, item := range items {
		i, ok := index[item.FarmerID]
		if !ok {
			i = len(groups)
			index[item.FarmerID] = i
			groups = append(groups, Group{FarmerID: item.FarmerID})
		}
		groups[i].Items = append(groups[i].Items, item)
		groups[i].Total += item.Price * float64(item.Quantity)
	}

	return groups
}
