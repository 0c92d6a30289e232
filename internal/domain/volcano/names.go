package volcano

// Fixed vocabularies for synthetic metabolomics data.  The name table is
// cycled for the first rows so small datasets carry recognizable labels;
// beyond it, labels fall back to a generated Metabolite_<n> form.

var metaboliteNames = []string{
	"1,3-Isoquinolinediol", "3,4-Dihydro-3-oxo-2H-(1,4)-benzoxazin-2-ylacetic acid",
	"(2-oxo-2,3-dihydro-1H-indol-3-yl)acetic acid", "Resedine", "Methionine sulfoxide",
	"trans-Urocanic acid", "Pro-Tyr", "Glu-Gly-Glu", "NP-024517", "Trp-Pro",
	"Biotin", "Pyridoxine", "Sulfocholic acid", "Pro-Pro", "Targinine",
	"L-Carnitine", "Taurine", "Creatine", "Adenosine", "Guanosine",
	"Cytidine", "Uridine", "Thymidine", "Inosine", "Xanthosine",
	"Hypoxanthine", "Xanthine", "Uric acid", "Allantoin", "Creatinine",
}

var superclassNames = []string{
	"Organic acids and derivatives", "Organoheterocyclic compounds",
	"Lipids and lipid-like molecules", "Others", "Nucleosides, nucleotides, and analogues",
}

var classNames = []string{
	"Carboxylic acids and derivatives", "Indoles and derivatives", "Benzoxazines",
	"Azolidines", "Azoles", "Biotin and derivatives", "Pyridines and derivatives",
	"Steroids and steroid derivatives", "Others", "Purine nucleosides",
}
