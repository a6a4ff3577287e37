package knownanswertest

// Copyright (c) 2025 Colin McRae

// ImaginaryByClassNumber lists every fundamental discriminant D < 0 with class number
// 1, 2 and 3.
//
// Reference: H. Cohen, "A Course in Computational Algebraic Number Theory", section 5.4
var ImaginaryByClassNumber = map[int64][]int64{
	1: {-3, -4, -7, -8, -11, -19, -43, -67, -163},
	2: {
		-15, -20, -24, -35, -40, -51, -52, -88, -91, -115, -123, -148, -187, -232, -235,
		-267, -403, -427,
	},
	3: {-23, -31, -59, -83, -107, -139, -211, -283, -307, -331, -379, -499, -547, -643, -883, -907},
}

// RealClassNumbers maps the fundamental discriminants 0 < D < 100 to class numbers
var RealClassNumbers = map[int64]int64{
	5: 1, 8: 1, 12: 1, 13: 1, 17: 1, 21: 1, 24: 1, 28: 1, 29: 1, 33: 1, 37: 1, 40: 2, 41: 1,
	44: 1, 53: 1, 56: 1, 57: 1, 60: 2, 61: 1, 65: 2, 69: 1, 73: 1, 76: 1, 77: 1, 85: 2,
	88: 1, 89: 1, 92: 1, 93: 1, 97: 1,
}

// Structures holds invariant factors of class groups with more than one of them
var Structures = map[int64][]int64{
	-84:   {2, 2},
	-120:  {2, 2},
	-260:  {4, 2},
	-420:  {2, 2, 2},
	-1540: {2, 2, 2},
	-1848: {2, 2, 2},
	-5460: {2, 2, 2, 2},
}
