package validators

import "go.mongodb.org/mongo-driver/bson"

var InventoryItemValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "low_stock_threshold"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":                 bson.M{"bsonType": "string"},
			"name":                bson.M{"bsonType": "string", "minLength": 1},
			"unit":                bson.M{"bsonType": "string"},
			"low_stock_threshold": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"reorder_quantity":    bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
		},
	},
}

var RoomInventoryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"room_id", "item_id", "current_quantity"},
		"additionalProperties": true,
		"properties": bson.M{
			"room_id":          bson.M{"bsonType": "string"},
			"item_id":          bson.M{"bsonType": "string"},
			"current_quantity": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
		},
	},
}

// WarehouseStockValidator rejects negative stock at the storage layer too.
var WarehouseStockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"item_id", "quantity"},
		"additionalProperties": true,
		"properties": bson.M{
			"item_id":    bson.M{"bsonType": "string"},
			"quantity":   bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"updated_at": bson.M{"bsonType": "date"},
		},
	},
}

var InventoryLedgerValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"item_id", "delta", "resulting_level", "reason", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"item_id":         bson.M{"bsonType": "string"},
			"delta":           bson.M{"bsonType": []string{"int", "long"}},
			"resulting_level": bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
			"reason":          bson.M{"bsonType": "string", "minLength": 1},
			"booking_id":      bson.M{"bsonType": "string"},
			"note":            bson.M{"bsonType": "string"},
			"actor":           bson.M{"bsonType": "string"},
			"created_at":      bson.M{"bsonType": "date"},
		},
	},
}

var InventoryAlertValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"item_id", "alert_type", "severity", "resolved", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"item_id":    bson.M{"bsonType": "string"},
			"alert_type": bson.M{"bsonType": "string", "enum": []string{"low_stock", "out_of_stock"}},
			"message":    bson.M{"bsonType": "string"},
			"severity":   bson.M{"bsonType": "string", "enum": []string{"warning", "critical"}},
			"level":      bson.M{"bsonType": []string{"int", "long"}},
			"threshold":  bson.M{"bsonType": []string{"int", "long"}},
			"resolved":   bson.M{"bsonType": "bool"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
