package margin

// broadBasedETFs maps broad-based ETF and index symbols to their leverage
// factor. Symbols found here margin at the index rate (15% times leverage)
// instead of the 20% equity rate. Not exhaustive; extend as needed.
var broadBasedETFs = map[string]float64{
	"SPY": 1, "VOO": 1, "IVV": 1, "VTI": 1, "QQQ": 1, "VEA": 1, "IEFA": 1, "IJH": 1,
	"IJR": 1, "VIG": 1, "VGT": 1, "VWO": 1, "IEMG": 1, "VXUS": 1, "IWM": 1, "VO": 1,
	"XLK": 1, "RSP": 1, "SCHD": 1, "VB": 1, "ITOT": 1, "VYM": 1, "EFA": 1, "SPLG": 1,
	"SCHX": 1, "QUAL": 1, "XLF": 1, "VT": 1, "IWR": 1, "SCHF": 1, "VV": 1, "VEU": 1,
	"IWB": 1, "XLV": 1, "XLE": 1, "IXUS": 1, "DIA": 1, "JEPI": 1, "VNQ": 1, "QQQM": 1,
	"DFAC": 1, "SCHB": 1, "DGRO": 1, "COWZ": 1, "TQQQ": 3, "MDY": 1, "USMV": 1, "XLY": 1,
	"VXF": 1, "XLI": 1, "SDY": 1, "DVY": 1, "SPDW": 1, "XLC": 1, "IYW": 1, "ACWI": 1, "SCHA": 1,
	"JEPQ": 1, "EEM": 1, "FNDX": 1, "VGK": 1, "XLU": 1, "VHT": 1, "XLP": 1, "EMXC": 1, "MOAT": 1,
	"IWV": 1, "DGRW": 1, "OEF": 1, "IDEV": 1, "ESGU": 1, "EWJ": 1, "MTUM": 1, "GSLC": 1, "FNDF": 1,
	"DYNF": 1, "RDVY": 1, "SPSM": 1, "FTEC": 1, "VTWO": 1, "NOBL": 1, "DFUS": 1, "SPMD": 1,
	"SPHQ": 1, "SCHM": 1, "VFH": 1, "BBJP": 1, "HDV": 1, "INDA": 1, "SPEM": 1, "ESGV": 1,
	"FVD": 1, "SPTM": 1, "FNDA": 1, "DFAS": 1, "SCHE": 1, "FTCS": 1, "CALF": 1, "VSS": 1,
	"SCZ": 1, "VDE": 1, "QYLD": 1, "ESGD": 1, "VYMI": 1, "FXI": 1, "AVUS": 1, "IQLT": 1, "XLRE": 1,
	"PRF": 1, "QLD": 2, "BBCA": 1, "SPLV": 1, "XLG": 1, "SDVY": 1, "ONEQ": 1, "DUHP": 1, "VDC": 1,
	"VIGI": 1, "DFAX": 1, "DFAI": 1, "VPL": 1, "SPYD": 1, "DFIC": 1, "AVEM": 1, "DFAU": 1,
	"JGLO": 1, "EZU": 1, "VPU": 1, "DBEF": 1, "MGC": 1, "BBEU": 1, "FNDE": 1, "JIRE": 1,
	"IOO": 1, "VCR": 1, "XMHQ": 1, "XLB": 1, "PBUS": 1, "VIS": 1, "EFAV": 1, "BUFR": 1,
	"MCHI": 1, "SSO": 2, "EWT": 1, "SPXL": 1, "HEFA": 1, "VONE": 1, "OMFL": 1, "JQUA": 1,
	"IXN": 1, "AVDE": 1, "DSI": 1, "BBIN": 1, "DFAE": 1, "BBAX": 1, "IYR": 1, "FDL": 1,
	"ACWX": 1, "DLN": 1, "ESGE": 1, "VOX": 1, "ACWV": 1, "UPRO": 3, "DFEM": 1, "SPGP": 1,
	"BBUS": 1, "JHMM": 1, "IEUR": 1, "EEMV": 1, "FDVV": 1, "EWY": 1, "IDV": 1, "RWL": 1,
	"URTH": 1, "FELC": 1, "CGUS": 1, "SCHK": 1, "SCHC": 1, "SPMO": 1, "DON": 1, "QTEC": 1,
	"VSGX": 1, "IXJ": 1, "FV": 1, "SUSA": 1, "DIVO": 1, "IYF": 1, "DXJ": 1, "EWZ": 1, "EPI": 1,
	"GSIE": 1, "KNG": 1, "SPHD": 1, "RSPT": 1, "TECL": 1, "XT": 1, "FEZ": 1, "PTLC": 1,
	"VNQI": 1, "IYH": 1, "BITU": 2, "USD": 2, "UYG": 2, "ROM": 2, "AGQ": 2, "DDM": 2, "UWM": 2,
	"UCO": 2, "SDS": 2, "TBT": 2, "BOIL": 2, "UGL": 2, "KOLD": 2, "QID": 2, "SCO": 2, "ETHT": 2,
	"MVV": 2, "UBT": 2, "DIG": 2, "RXL": 2, "URE": 2, "BIB": 2, "DXD": 2, "YCL": 2, "SBIT": 2,
	"TWM": 2, "EUO": 2, "UYM": 2, "SAA": 2, "SRS": 2, "UXI": 2, "YCS": 2, "EPV": 2, "ZSL": 2,
	"UCC": 2, "UST": 2, "XPP": 2, "UPW": 2, "PST": 2, "GLL": 2, "EET": 2, "UJB": 2, "DUG": 2,
	"SKF": 2, "FXP": 2, "LTL": 2, "UGE": 2, "BZQ": 2, "EFO": 2, "SSG": 2, "ETHD": 2, "ULE": 2,
	"EZJ": 2, "EEV": 2, "EWV": 2, "UCYB": 2, "REW": 2, "UPV": 2, "BIS": 2, "SKYU": 2, "EFU": 2,
	"SDD": 2, "UBR": 2, "RXD": 2, "SDP": 2, "MZZ": 2, "SCC": 2, "SIJ": 2, "SMN": 2, "SZK": 2,
	"SQQQ": 3, "UDOW": 3, "URTY": 3, "SPXU": 3, "SDOW": 3, "SRTY": 3, "UMDD": 3, "TTT": 3, "SMDD": 3,
}

// IsBroadBased reports whether the symbol margins at the broad-based index
// rate and, if so, its leverage factor.
func IsBroadBased(symbol string) (leverage float64, ok bool) {
	leverage, ok = broadBasedETFs[symbol]
	if ok && leverage == 0 {
		leverage = 1
	}
	return leverage, ok
}
