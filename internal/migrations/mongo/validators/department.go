package validators

import "go.mongodb.org/mongo-driver/bson"

const timeOfDayPattern = `^([01][0-9]|2[0-3]):[0-5][0-9]$`

var DepartmentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{"name"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"operating_hours": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"day_of_week", "start_time", "end_time"},
					"properties": bson.M{
						"day_of_week": bson.M{
							"bsonType": "string",
							"enum": []string{
								"Monday",
								"Tuesday",
								"Wednesday",
								"Thursday",
								"Friday",
								"Saturday",
								"Sunday",
							},
						},
						"start_time": bson.M{
							"bsonType": "string",
							"pattern":  timeOfDayPattern,
						},
						"end_time": bson.M{
							"bsonType": "string",
							"pattern":  timeOfDayPattern,
						},
					},
				},
			},
		},
	},
}
