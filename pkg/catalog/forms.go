package catalog

// SpecialForms lists alternate forms that the entity list endpoint does not
// return within the first 1025 entries but the browser shows alongside their
// base entity.
var SpecialForms = []string{
	// Mega evolutions
	"venusaur-mega", "charizard-mega-x", "charizard-mega-y", "blastoise-mega",
	"alakazam-mega", "gengar-mega", "kangaskhan-mega", "pinsir-mega",
	"gyarados-mega", "aerodactyl-mega", "mewtwo-mega-x", "mewtwo-mega-y",
	"ampharos-mega", "scizor-mega", "heracross-mega", "houndoom-mega",
	"tyranitar-mega", "blaziken-mega", "gardevoir-mega", "mawile-mega",
	"aggron-mega", "medicham-mega", "manectric-mega", "banette-mega",
	"absol-mega", "garchomp-mega", "lucario-mega", "abomasnow-mega",
	"beedrill-mega", "pidgeot-mega", "slowbro-mega", "steelix-mega",
	"sceptile-mega", "swampert-mega", "sableye-mega", "sharpedo-mega",
	"camerupt-mega", "altaria-mega", "glalie-mega", "salamence-mega",
	"metagross-mega", "latias-mega", "latios-mega", "rayquaza-mega",
	"lopunny-mega", "gallade-mega", "audino-mega", "diancie-mega",

	// Alolan forms
	"raichu-alola", "vulpix-alola", "ninetales-alola", "meowth-alola",
	"rattata-alola", "raticate-alola", "sandshrew-alola", "sandslash-alola",
	"grimer-alola", "muk-alola", "marowak-alola",

	// Galarian forms
	"meowth-galar", "zigzagoon-galar", "linoone-galar", "ponyta-galar",
	"rapidash-galar", "farfetchd-galar", "corsola-galar",
	"darmanitan-galar-standard",

	// Gigantamax forms
	"venusaur-gmax", "charizard-gmax", "blastoise-gmax", "butterfree-gmax",
	"pikachu-gmax", "meowth-gmax", "machamp-gmax", "gengar-gmax",
	"kingler-gmax", "lapras-gmax", "eevee-gmax", "snorlax-gmax",
	"garbodor-gmax", "melmetal-gmax", "rillaboom-gmax", "cinderace-gmax",
	"inteleon-gmax", "corviknight-gmax", "orbeetle-gmax", "drednaw-gmax",
	"coalossal-gmax", "flapple-gmax", "appletun-gmax", "sandaconda-gmax",
	"toxtricity-amped-gmax", "toxtricity-low-key-gmax", "centiskorch-gmax",
	"hatterene-gmax", "grimmsnarl-gmax", "alcremie-gmax", "copperajah-gmax",
	"duraludon-gmax", "urshifu-single-strike-gmax", "urshifu-rapid-strike-gmax",
}
