// Package city holds the static city knowledge and the city-detail page
// controller: tab switching, image overlays, and the guarded mark-explored
// flow.
package city

// Info is the static description of one interactive city.
type Info struct {
	Name        string
	EnName      string
	Subtitle    string
	Description string
}

// Cities is the fixed interactive allow-list. Regions outside this table are
// styled on the map but inert.
var Cities = []Info{
	{
		Name:        "福州",
		EnName:      "fuzhou",
		Subtitle:    "福建省会，榕城",
		Description: "福州是福建省的省会城市，有着2200多年的建城史，是国家历史文化名城。因城内遍植榕树，别称\"榕城\"。福州是中国东南沿海重要的贸易港口和海上丝绸之路的门户。",
	},
	{
		Name:        "南平",
		EnName:      "nanping",
		Subtitle:    "闽北重镇，武夷胜地",
		Description: "南平市位于福建省北部，武夷山脉北段东南侧，闽江上游，是福建通往内地的咽喉要道。南平是福建重要的林业基地和旅游城市，以武夷山风景区闻名于世。",
	},
	{
		Name:        "龙岩",
		EnName:      "longyan",
		Subtitle:    "客家祖地，红色圣地",
		Description: "龙岩市位于福建省西部，地处闽粤赣三省交界，是重要的客家聚居地和革命老区。龙岩是客家人的重要祖籍地，也是原中央苏区的重要组成部分。",
	},
	{
		Name:        "泉州",
		EnName:      "quanzhou",
		Subtitle:    "海上丝绸之路起点",
		Description: "泉州市位于福建省东南沿海，是联合国教科文组织认定的海上丝绸之路起点，宋元时期的世界海洋贸易中心。泉州是著名的侨乡和台湾同胞的主要祖籍地。",
	},
	{
		Name:        "莆田",
		EnName:      "putian",
		Subtitle:    "妈祖故乡，鞋都",
		Description: "莆田市位于福建省东部沿海，是妈祖文化的发祥地，也是著名的侨乡。莆田以制鞋业闻名，是中国重要的鞋业生产基地，同时医疗产业也十分发达。",
	},
}

// dbNamePrefix is how the backend historically stored exploration rows.
const dbNamePrefix = "闽派新语 - "

// Lookup finds an interactive city by display name.
func Lookup(name string) (Info, bool) {
	for _, c := range Cities {
		if c.Name == name {
			return c, true
		}
	}
	return Info{}, false
}

// LookupEn finds an interactive city by its URL slug.
func LookupEn(enName string) (Info, bool) {
	for _, c := range Cities {
		if c.EnName == enName {
			return c, true
		}
	}
	return Info{}, false
}

// DBName maps a display name to the exhibit-prefixed form stored
// server-side ("福州" -> "闽派新语 - 福州").
func DBName(displayName string) string {
	return dbNamePrefix + displayName
}

// DisplayName strips the exhibit prefix from a stored name, returning the
// input unchanged when it carries no prefix (the API already normalizes
// most responses).
func DisplayName(stored string) string {
	if len(stored) > len(dbNamePrefix) && stored[:len(dbNamePrefix)] == dbNamePrefix {
		return stored[len(dbNamePrefix):]
	}
	return stored
}
