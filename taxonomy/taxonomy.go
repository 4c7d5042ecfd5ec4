package taxonomy

import "strings"

// Department is a municipal department category. The set is closed:
// every value produced by this package is one of the constants below.
type Department string

const (
	Fire           Department = "FIRE"
	Water          Department = "WATER"
	Electric       Department = "ELECTRIC"
	Roads          Department = "ROADS"
	Waste          Department = "WASTE"
	Parks          Department = "PARKS"
	Building       Department = "BUILDING"
	Health         Department = "HEALTH"
	Transport      Department = "TRANSPORT"
	Traffic        Department = "TRAFFIC"
	Education      Department = "EDUCATION"
	CivicInfra     Department = "CIVIC_INFRASTRUCTURE"
	Communication  Department = "COMMUNICATION"
	DisasterRelief Department = "DISASTER_RELIEF"
)

// DefaultDepartment is the coercion target for unrecognized department values.
const DefaultDepartment = Building

// Priority is an issue urgency level.
type Priority string

const (
	Critical Priority = "CRITICAL"
	High     Priority = "HIGH"
	Medium   Priority = "MEDIUM"
	Low      Priority = "LOW"
)

// DefaultPriority is the coercion target for unrecognized priority values.
const DefaultPriority = Medium

// Departments lists every department in prompt order.
var Departments = []Department{
	Fire, Water, Electric, Roads, Waste, Parks, Building, Health,
	Transport, Traffic, Education, CivicInfra, Communication, DisasterRelief,
}

// Priorities lists every priority level from most to least urgent.
var Priorities = []Priority{Critical, High, Medium, Low}

// Hints maps each department to descriptive keywords. The hints only enrich
// the model prompt; classification itself is delegated to the model.
var Hints = map[Department][]string{
	Fire: {
		"fire", "smoke", "burning", "flames", "emergency", "rescue",
		"explosion", "blaze", "scorch", "alarm", "firefighter",
	},
	Water: {
		"water", "flooding", "leak", "pipe", "drainage", "sewer", "overflow",
		"wet road", "sewage", "contaminated water", "broken pipe", "manhole",
	},
	Electric: {
		"electric", "power", "cable", "wire", "pole", "outage", "transformer",
		"short circuit", "live wire", "street light", "spark",
	},
	Roads: {
		"road", "pothole", "pavement", "street", "traffic", "sign", "marking",
		"speed breaker", "signal", "barrier", "crack", "manhole cover",
	},
	Waste: {
		"garbage", "trash", "waste", "dumpster", "litter", "recycling",
		"overflowing bin", "illegal dumping", "dead animal", "open garbage",
	},
	Parks: {
		"park", "tree", "garden", "playground", "bench", "maintenance",
		"broken swing", "fallen tree", "damaged slide", "open well",
	},
	Building: {
		"building", "construction", "structure", "violation", "permit",
		"broken wall", "collapsed", "unsafe building", "crack", "illegal work",
	},
	Health: {
		"health", "sanitation", "pest", "contamination", "safety",
		"mosquito", "dirty toilet", "open defecation", "septic tank", "infection",
	},
	Transport: {
		"bus stop", "shelter damage", "vehicle damage", "rail track", "sign board",
		"auto stand", "transport board", "public bus",
	},
	Traffic: {
		"congestion", "signal not working", "road block", "illegal parking",
		"no entry", "wrong side", "accident",
	},
	Education: {
		"school", "playground", "broken desk", "unsafe building", "dirty classroom",
		"toilet school", "open wiring",
	},
	CivicInfra: {
		"open manhole", "unfinished construction", "broken tap", "non-functional toilet",
		"public facility broken", "leaking roof",
	},
	Communication: {
		"telecom pole", "fiber wire", "damaged antenna", "communication wire",
		"internet cable", "broken signal tower",
	},
	DisasterRelief: {
		"earthquake", "collapsed building", "flood", "waterlogging", "relief camp",
		"emergency shelter", "rescue operation",
	},
}

// PriorityGuidance maps each priority to its service-level description,
// embedded verbatim in the model prompt.
var PriorityGuidance = map[Priority]string{
	Critical: "Immediate attention required - public safety risk",
	High:     "Urgent - should be addressed within 24 hours",
	Medium:   "Important - should be addressed within 1 week",
	Low:      "Minor issue - can be scheduled for routine maintenance",
}

// ParseDepartment coerces a raw model value into the closed department set.
// Matching is case-insensitive and tolerant of space/underscore variants
// (models sometimes emit "Civic Infrastructure"). Unrecognized values fall
// back to DefaultDepartment.
func ParseDepartment(raw string) (Department, bool) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")
	for _, d := range Departments {
		if key == string(d) {
			return d, true
		}
	}
	return DefaultDepartment, false
}

// ParsePriority coerces a raw model value into the priority set, falling
// back to DefaultPriority on anything unrecognized.
func ParsePriority(raw string) (Priority, bool) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	for _, p := range Priorities {
		if key == string(p) {
			return p, true
		}
	}
	return DefaultPriority, false
}
