package catalog

// staticBooks is the bundled fallback: English editions for classes 9 and 10.
var staticBooks = []staticBook{
	{
		id:      "class10-math",
		class:   "10",
		subject: "Math",
		title:   "Mathematics",
		code:    "jemh1",
		chapters: []string{
			"Real Numbers",
			"Polynomials",
			"Pair of Linear Equations in Two Variables",
			"Quadratic Equations",
			"Arithmetic Progressions",
			"Triangles",
			"Coordinate Geometry",
			"Introduction to Trigonometry",
			"Some Applications of Trigonometry",
			"Circles",
			"Areas Related to Circles",
			"Surface Areas and Volumes",
			"Statistics",
			"Probability",
		},
	},
	{
		id:      "class10-science",
		class:   "10",
		subject: "Science",
		title:   "Science",
		code:    "jesc1",
		chapters: []string{
			"Chemical Reactions and Equations",
			"Acids, Bases and Salts",
			"Metals and Non-metals",
			"Carbon and its Compounds",
			"Life Processes",
			"Control and Coordination",
			"How do Organisms Reproduce?",
			"Heredity",
			"Light - Reflection and Refraction",
			"The Human Eye and the Colourful World",
			"Electricity",
			"Magnetic Effects of Electric Current",
			"Our Environment",
		},
	},
	{
		id:      "class10-social",
		class:   "10",
		subject: "Social Studies",
		title:   "India and the Contemporary World - II",
		code:    "jess3",
		chapters: []string{
			"The Rise of Nationalism in Europe",
			"Nationalism in India",
			"The Making of a Global World",
			"The Age of Industrialisation",
			"Print Culture and the Modern World",
		},
	},
	{
		id:      "class9-math",
		class:   "9",
		subject: "Math",
		title:   "Mathematics",
		code:    "iemh1",
		chapters: []string{
			"Number Systems",
			"Polynomials",
			"Coordinate Geometry",
			"Linear Equations in Two Variables",
			"Introduction to Euclid's Geometry",
			"Lines and Angles",
			"Triangles",
			"Quadrilaterals",
			"Circles",
			"Heron's Formula",
			"Surface Areas and Volumes",
			"Statistics",
		},
	},
	{
		id:      "class9-science",
		class:   "9",
		subject: "Science",
		title:   "Science",
		code:    "iesc1",
		chapters: []string{
			"Matter in Our Surroundings",
			"Is Matter Around Us Pure?",
			"Atoms and Molecules",
			"Structure of the Atom",
			"The Fundamental Unit of Life",
			"Tissues",
			"Motion",
			"Force and Laws of Motion",
			"Gravitation",
			"Work and Energy",
			"Sound",
			"Improvement in Food Resources",
		},
	},
	{
		id:      "class9-social",
		class:   "9",
		subject: "Social Studies",
		title:   "India and the Contemporary World - I",
		code:    "iess2",
		chapters: []string{
			"The French Revolution",
			"Socialism in Europe and the Russian Revolution",
			"Nazism and the Rise of Hitler",
			"Forest Society and Colonialism",
			"Pastoralists in the Modern World",
		},
	},
}
