// internal/api/schemas.go
package api

import "pump-advisor/internal/common/validation"

var createSessionSchema = validation.MustCompile(`{
  "type": "object",
  "properties": {
    "sessionId": {"type": "string", "maxLength": 128}
  }
}`)

var chatSchema = validation.MustCompile(`{
  "type": "object",
  "required": ["sessionId", "message"],
  "properties": {
    "sessionId": {"type": "string", "minLength": 1, "maxLength": 128},
    "message":   {"type": "string"}
  }
}`)

// recommendationSchema describes the collected-data document accepted by
// the stateless sizing endpoint. Unset answers may be omitted or null.
var recommendationSchema = validation.MustCompile(`{
  "type": "object",
  "definitions": {
    "nonNegative": {"type": ["number", "null"], "minimum": 0},
    "count":       {"type": ["integer", "null"], "minimum": 0},
    "flag":        {"type": ["boolean", "null"]}
  },
  "properties": {
    "usageType":           {"enum": ["livestock", "household", "irrigation", "other", "unknown"]},
    "location":            {"type": ["string", "null"]},
    "livestockType":       {"type": ["string", "null"]},
    "animalCount":         {"$ref": "#/definitions/count"},
    "peopleCount":         {"$ref": "#/definitions/count"},
    "bathroomCount":       {"$ref": "#/definitions/nonNegative"},
    "fixturesDescription": {"type": ["string", "null"]},
    "irrigationArea":      {"$ref": "#/definitions/nonNegative"},
    "irrigationMethod":    {"enum": ["drip", "sprinkler", "flood", null]},
    "cropCategory":        {"enum": ["vegetables", "fruits", "lawn", null]},
    "wellDepth":           {"$ref": "#/definitions/nonNegative"},
    "staticWaterLevel":    {"$ref": "#/definitions/nonNegative"},
    "drawdownLevel":       {"$ref": "#/definitions/nonNegative"},
    "elevationGain":       {"type": ["number", "null"]},
    "pipeLength":          {"$ref": "#/definitions/nonNegative"},
    "pipeSize":            {"type": ["number", "null"], "minimum": 0.1},
    "wellCasingSize":      {"$ref": "#/definitions/nonNegative"},
    "directToTank":        {"$ref": "#/definitions/flag"},
    "hasStorageTank":      {"$ref": "#/definitions/flag"},
    "sandyWater":          {"$ref": "#/definitions/flag"},
    "customGPD":           {"$ref": "#/definitions/nonNegative"},
    "customHead":          {"$ref": "#/definitions/nonNegative"},
    "peakSunHours":        {"type": ["number", "null"], "minimum": 0, "maximum": 24}
  }
}`)
