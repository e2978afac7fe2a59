package squadgen

// Name pools for generated squads and players. Combinations are not guaranteed
// unique; player identity lives in the ID, not the name.

var squadPrefixes = []string{
	"FC", "Real", "Atletico", "Sporting", "Inter", "United", "Dynamo", "Racing",
	"Olympic", "Union", "Northern", "Coastal", "Royal", "Crystal",
}

var squadSuffixes = []string{
	"Rovers", "Wanderers", "Athletic", "City", "Town", "Albion", "Rangers",
	"Harriers", "Thistle", "Victoria", "Orient", "Corinthians", "Phoenix", "Stars",
}

var firstNames = []string{
	"Alex", "Bruno", "Carlos", "Diego", "Emil", "Felipe", "Gabriel", "Hugo",
	"Ivan", "Jonas", "Kai", "Luca", "Mateo", "Nico", "Oscar", "Pedro",
	"Rafael", "Sergio", "Thiago", "Victor", "Willem", "Yannick", "Andre", "Marco",
}

var lastNames = []string{
	"Almeida", "Bergkamp", "Costa", "Dominguez", "Eriksson", "Fernandes",
	"Gonzalez", "Hernandez", "Ibanez", "Jensen", "Kovac", "Lindqvist",
	"Moreno", "Novak", "Oliveira", "Petrov", "Quintero", "Rossi",
	"Santos", "Torres", "Vidal", "Weber", "Yamamoto", "Zielinski",
}
