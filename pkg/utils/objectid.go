package utils

import "go.mongodb.org/mongo-driver/bson/primitive"

// ParseObjectIDs 批量解析 hex；任一非法即返回错误。nil 输入返回空切片
func ParseObjectIDs(hexes []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}
