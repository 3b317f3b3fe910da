package validators

import "go.mongodb.org/mongo-driver/bson"

var RoomValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"number", "guests", "price", "status"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":    bson.M{"bsonType": "string"},
			"number": bson.M{"bsonType": "string"},
			"guests": bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
			"price":  bson.M{"bsonType": "decimal"},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"available", "booked", "maintenance", "unavailable"},
			},
		},
	},
}
